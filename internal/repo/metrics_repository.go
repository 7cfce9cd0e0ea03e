package repo

import "context"

type TopBakery struct {
	Name            string `json:"name"`
	BakedGoodsCount int    `json:"baked_goods_count"`
}

type Metrics struct {
	TotalBakeries   int       `json:"total_bakeries"`
	TotalBakedGoods int       `json:"total_baked_goods"`
	AveragePrice    float64   `json:"average_price"`
	TopBakery       TopBakery `json:"top_bakery"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
