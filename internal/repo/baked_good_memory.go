package repo

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rogerio-castellano/bakery-api/internal/models"
)

// InMemoryBakedGoodRepository is an in-memory implementation of BakedGoodRepository.
type InMemoryBakedGoodRepository struct {
	mu         sync.RWMutex
	bakedGoods []models.BakedGood
	nextID     int
}

// NewInMemoryBakedGoodRepository creates a new instance of InMemoryBakedGoodRepository.
func NewInMemoryBakedGoodRepository() *InMemoryBakedGoodRepository {
	return &InMemoryBakedGoodRepository{
		bakedGoods: []models.BakedGood{},
		nextID:     1,
	}
}

// Create adds a new baked good and assigns its id and timestamps.
func (r *InMemoryBakedGoodRepository) Create(ctx context.Context, bg models.BakedGood) (models.BakedGood, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bg.ID = r.nextID
	r.nextID++
	bg.CreatedAt = now()
	bg.UpdatedAt = bg.CreatedAt
	r.bakedGoods = append(r.bakedGoods, bg)
	return bg, nil
}

// GetAll retrieves all baked goods ordered by id.
func (r *InMemoryBakedGoodRepository) GetAll(ctx context.Context) ([]models.BakedGood, error) {
	return r.List(ctx, ListOptions{})
}

// GetByID retrieves a baked good by its ID.
func (r *InMemoryBakedGoodRepository) GetByID(ctx context.Context, id int) (models.BakedGood, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, bg := range r.bakedGoods {
		if bg.ID == id {
			return bg, nil
		}
	}
	return models.BakedGood{}, ErrBakedGoodNotFound
}

func (r *InMemoryBakedGoodRepository) GetByBakeryID(ctx context.Context, bakeryID int) ([]models.BakedGood, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.BakedGood{}
	for _, bg := range r.bakedGoods {
		if bg.BakeryID == bakeryID {
			out = append(out, bg)
		}
	}
	return out, nil
}

func compareBakedGoods(a, b models.BakedGood, column string) int {
	switch column {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "price":
		return cmp.Compare(a.Price, b.Price)
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	default:
		return cmp.Compare(a.ID, b.ID)
	}
}

// List returns a sorted copy of the baked goods. Ties always break on id ascending.
func (r *InMemoryBakedGoodRepository) List(ctx context.Context, opts ListOptions) ([]models.BakedGood, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := slices.Clone(r.bakedGoods)
	r.mu.RUnlock()
	if out == nil {
		out = []models.BakedGood{}
	}

	slices.SortStableFunc(out, func(a, b models.BakedGood) int {
		c := compareBakedGoods(a, b, opts.OrderBy)
		if opts.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Delete removes a baked good from the repository by its ID.
func (r *InMemoryBakedGoodRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, bg := range r.bakedGoods {
		if bg.ID == id {
			r.bakedGoods = append(r.bakedGoods[:i], r.bakedGoods[i+1:]...)
			return nil
		}
	}
	return ErrBakedGoodNotFound
}

func (r *InMemoryBakedGoodRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bakedGoods = []models.BakedGood{}
}
