package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/bakery-api/internal/models"
)

// InMemoryBakeryRepository is an in-memory implementation of BakeryRepository.
// Baked goods are read from the repository passed to the constructor.
type InMemoryBakeryRepository struct {
	mu         sync.RWMutex
	bakeries   []models.Bakery
	nextID     int
	bakedGoods BakedGoodRepository
}

// NewInMemoryBakeryRepository creates a new instance of InMemoryBakeryRepository.
func NewInMemoryBakeryRepository(bakedGoods BakedGoodRepository) *InMemoryBakeryRepository {
	return &InMemoryBakeryRepository{
		bakeries:   []models.Bakery{},
		nextID:     1,
		bakedGoods: bakedGoods,
	}
}

func (r *InMemoryBakeryRepository) withBakedGoods(ctx context.Context, b models.Bakery) (models.Bakery, error) {
	b.BakedGoods = []models.BakedGood{}
	if r.bakedGoods == nil {
		return b, nil
	}
	goods, err := r.bakedGoods.GetByBakeryID(ctx, b.ID)
	if err != nil {
		return models.Bakery{}, err
	}
	b.BakedGoods = goods
	return b, nil
}

// Create adds a new bakery and assigns its id and timestamps.
func (r *InMemoryBakeryRepository) Create(ctx context.Context, b models.Bakery) (models.Bakery, error) {
	r.mu.Lock()
	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	b.BakedGoods = nil
	r.bakeries = append(r.bakeries, b)
	r.mu.Unlock()

	return r.withBakedGoods(ctx, b)
}

// GetAll retrieves all bakeries ordered by id.
func (r *InMemoryBakeryRepository) GetAll(ctx context.Context) ([]models.Bakery, error) {
	r.mu.RLock()
	bakeries := make([]models.Bakery, len(r.bakeries))
	copy(bakeries, r.bakeries)
	r.mu.RUnlock()

	for i, b := range bakeries {
		loaded, err := r.withBakedGoods(ctx, b)
		if err != nil {
			return nil, err
		}
		bakeries[i] = loaded
	}
	return bakeries, nil
}

// GetByID retrieves a bakery by its ID.
func (r *InMemoryBakeryRepository) GetByID(ctx context.Context, id int) (models.Bakery, error) {
	r.mu.RLock()
	var (
		found models.Bakery
		ok    bool
	)
	for _, b := range r.bakeries {
		if b.ID == id {
			found, ok = b, true
			break
		}
	}
	r.mu.RUnlock()

	if !ok {
		return models.Bakery{}, ErrBakeryNotFound
	}
	return r.withBakedGoods(ctx, found)
}

func (r *InMemoryBakeryRepository) Exists(ctx context.Context, id int) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bakeries {
		if b.ID == id {
			return true, nil
		}
	}
	return false, nil
}

// UpdateName renames a bakery. updated_at is bumped only on a real change.
func (r *InMemoryBakeryRepository) UpdateName(ctx context.Context, id int, name string) (models.Bakery, error) {
	r.mu.Lock()
	var (
		updated models.Bakery
		ok      bool
	)
	for i, b := range r.bakeries {
		if b.ID == id {
			if r.bakeries[i].Name != name {
				r.bakeries[i].Name = name
				r.bakeries[i].UpdatedAt = now()
			}
			updated, ok = r.bakeries[i], true
			break
		}
	}
	r.mu.Unlock()

	if !ok {
		return models.Bakery{}, ErrBakeryNotFound
	}
	return r.withBakedGoods(ctx, updated)
}

func (r *InMemoryBakeryRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bakeries = []models.Bakery{}
}
