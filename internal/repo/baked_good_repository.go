package repo

import (
	"context"

	"github.com/rogerio-castellano/bakery-api/internal/models"
)

// BakedGoodRepository defines the data operations on baked goods.
type BakedGoodRepository interface {
	Create(ctx context.Context, bakedGood models.BakedGood) (models.BakedGood, error)
	GetAll(ctx context.Context) ([]models.BakedGood, error)
	GetByID(ctx context.Context, id int) (models.BakedGood, error)
	GetByBakeryID(ctx context.Context, bakeryID int) ([]models.BakedGood, error)
	List(ctx context.Context, opts ListOptions) ([]models.BakedGood, error)
	Delete(ctx context.Context, id int) error
}
