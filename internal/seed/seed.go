// Package seed fills an empty store with sample bakeries and baked goods.
package seed

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/bakery-api/internal/models"
	"github.com/rogerio-castellano/bakery-api/internal/repo"
)

type sampleBakery struct {
	name  string
	goods []models.BakedGood
}

var samples = []sampleBakery{
	{
		name: "Delightful donuts",
		goods: []models.BakedGood{
			{Name: "Chocolate dipped donut", Price: 2.75},
			{Name: "Apple-spice filled donut", Price: 3.50},
			{Name: "Glazed honey cruller", Price: 3.25},
		},
	},
	{
		name: "Incredible crullers",
		goods: []models.BakedGood{
			{Name: "Plain cruller", Price: 1.95},
			{Name: "Crème brûlée cruller", Price: 4.25},
		},
	},
	{
		name: "Sunrise bread co.",
		goods: []models.BakedGood{
			{Name: "Sourdough loaf", Price: 6.00},
			{Name: "Butter croissant", Price: 2.80},
			{Name: "Cinnamon roll", Price: 3.40},
		},
	},
}

type Result struct {
	Bakeries   int
	BakedGoods int
	Skipped    bool
}

// Run inserts the sample data unless the store already has bakeries.
func Run(ctx context.Context, bakeries repo.BakeryRepository, goods repo.BakedGoodRepository) (Result, error) {
	existing, err := bakeries.GetAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("seed: list bakeries: %w", err)
	}
	if len(existing) > 0 {
		return Result{Skipped: true}, nil
	}

	var res Result
	for _, s := range samples {
		b, err := bakeries.Create(ctx, models.Bakery{Name: s.name})
		if err != nil {
			return res, fmt.Errorf("seed: create bakery %q: %w", s.name, err)
		}
		res.Bakeries++

		for _, g := range s.goods {
			g.BakeryID = b.ID
			if _, err := goods.Create(ctx, g); err != nil {
				return res, fmt.Errorf("seed: create baked good %q: %w", g.Name, err)
			}
			res.BakedGoods++
		}
	}
	return res, nil
}
