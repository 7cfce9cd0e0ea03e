package repo

import "context"

type InMemoryMetricsRepository struct {
	bakeryRepo    BakeryRepository
	bakedGoodRepo BakedGoodRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	bakeryRepo BakeryRepository,
	bakedGoodRepo BakedGoodRepository,
) {
	i.bakeryRepo = bakeryRepo
	i.bakedGoodRepo = bakedGoodRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	bakeries, err := i.bakeryRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalBakeries = len(bakeries)

	// bakeries come back in id order, so the first with the highest count wins ties
	for _, b := range bakeries {
		if len(b.BakedGoods) > m.TopBakery.BakedGoodsCount {
			m.TopBakery.Name = b.Name
			m.TopBakery.BakedGoodsCount = len(b.BakedGoods)
		}
	}

	goods, err := i.bakedGoodRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalBakedGoods = len(goods)

	if len(goods) > 0 {
		var sum float64
		for _, bg := range goods {
			sum += bg.Price
		}
		m.AveragePrice = sum / float64(len(goods))
	}

	return m, nil
}
