package repo

import (
	"context"

	"github.com/rogerio-castellano/bakery-api/internal/models"
)

// BakeryRepository defines the data operations on bakeries. Every returned
// bakery carries its baked goods.
type BakeryRepository interface {
	Create(ctx context.Context, bakery models.Bakery) (models.Bakery, error)
	GetAll(ctx context.Context) ([]models.Bakery, error)
	GetByID(ctx context.Context, id int) (models.Bakery, error)
	Exists(ctx context.Context, id int) (bool, error)
	UpdateName(ctx context.Context, id int, name string) (models.Bakery, error)
}
