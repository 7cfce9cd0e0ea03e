package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rogerio-castellano/bakery-api/internal/config"
	"github.com/rogerio-castellano/bakery-api/internal/db"
	"github.com/rogerio-castellano/bakery-api/internal/models"
	"github.com/rogerio-castellano/bakery-api/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stores struct {
	bakeries   repo.BakeryRepository
	bakedGoods repo.BakedGoodRepository
	metrics    repo.MetricsRepository
}

func memoryStores(t *testing.T) stores {
	t.Helper()
	goods := repo.NewInMemoryBakedGoodRepository()
	bakeries := repo.NewInMemoryBakeryRepository(goods)
	m := repo.NewInMemoryMetricsRepository()
	m.SetRepositories(bakeries, goods)
	return stores{bakeries: bakeries, bakedGoods: goods, metrics: m}
}

func sqliteStores(t *testing.T) stores {
	t.Helper()
	conn, err := db.Connect(config.DatabaseConfig{
		Driver:       db.DriverSQLite,
		URL:          filepath.Join(t.TempDir(), "repo.db"),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	_, err = db.Migrate(context.Background(), conn, db.DriverSQLite)
	require.NoError(t, err)

	return stores{
		bakeries:   repo.NewSQLBakeryRepository(conn, db.DriverSQLite),
		bakedGoods: repo.NewSQLBakedGoodRepository(conn, db.DriverSQLite),
		metrics:    repo.NewSQLMetricsRepository(conn),
	}
}

func eachStore(t *testing.T, fn func(t *testing.T, s stores)) {
	t.Run("memory", func(t *testing.T) { fn(t, memoryStores(t)) })
	t.Run("sqlite", func(t *testing.T) { fn(t, sqliteStores(t)) })
}

func mustBakery(t *testing.T, s stores, name string) models.Bakery {
	t.Helper()
	b, err := s.bakeries.Create(context.Background(), models.Bakery{Name: name})
	require.NoError(t, err)
	return b
}

func mustBakedGood(t *testing.T, s stores, name string, price float64, bakeryID int) models.BakedGood {
	t.Helper()
	bg, err := s.bakedGoods.Create(context.Background(), models.BakedGood{Name: name, Price: price, BakeryID: bakeryID})
	require.NoError(t, err)
	return bg
}

func TestBakeryRepository_CreateAndGet(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		b := mustBakery(t, s, "Delightful donuts")
		assert.NotZero(t, b.ID)
		assert.False(t, b.CreatedAt.IsZero())
		assert.Equal(t, b.CreatedAt, b.UpdatedAt)

		mustBakedGood(t, s, "Chocolate dipped donut", 2.75, b.ID)
		mustBakedGood(t, s, "Apple-spice filled donut", 3.5, b.ID)

		got, err := s.bakeries.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Delightful donuts", got.Name)
		assert.True(t, b.CreatedAt.Equal(got.CreatedAt))
		require.Len(t, got.BakedGoods, 2)
		assert.Equal(t, "Chocolate dipped donut", got.BakedGoods[0].Name)

		_, err = s.bakeries.GetByID(ctx, b.ID+100)
		assert.ErrorIs(t, err, repo.ErrBakeryNotFound)
	})
}

func TestBakeryRepository_GetAllEmbedsGoods(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		first := mustBakery(t, s, "Delightful donuts")
		second := mustBakery(t, s, "Incredible crullers")
		mustBakedGood(t, s, "Glazed honey cruller", 3.25, second.ID)

		all, err := s.bakeries.GetAll(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 2)

		assert.Equal(t, first.ID, all[0].ID)
		assert.NotNil(t, all[0].BakedGoods)
		assert.Empty(t, all[0].BakedGoods)
		require.Len(t, all[1].BakedGoods, 1)
		assert.Equal(t, "Glazed honey cruller", all[1].BakedGoods[0].Name)
	})
}

func TestBakeryRepository_Exists(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		b := mustBakery(t, s, "Delightful donuts")

		ok, err := s.bakeries.Exists(context.Background(), b.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.bakeries.Exists(context.Background(), b.ID+1)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestBakeryRepository_UpdateName(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		b := mustBakery(t, s, "Delightful donuts")
		mustBakedGood(t, s, "Powdered sugar donut", 2.0, b.ID)

		updated, err := s.bakeries.UpdateName(ctx, b.ID, "Doughnut Heaven")
		require.NoError(t, err)
		assert.Equal(t, "Doughnut Heaven", updated.Name)
		assert.Len(t, updated.BakedGoods, 1)
		assert.False(t, updated.UpdatedAt.Before(b.UpdatedAt))

		again, err := s.bakeries.UpdateName(ctx, b.ID, "Doughnut Heaven")
		require.NoError(t, err)
		assert.Equal(t, updated.Name, again.Name)
		assert.True(t, again.UpdatedAt.Equal(updated.UpdatedAt), "same name must not move updated_at")

		_, err = s.bakeries.UpdateName(ctx, b.ID+10, "Nowhere")
		assert.ErrorIs(t, err, repo.ErrBakeryNotFound)
	})
}

func TestBakedGoodRepository_ListByPrice(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		b := mustBakery(t, s, "Delightful donuts")
		cheap := mustBakedGood(t, s, "Plain", 1.0, b.ID)
		pricey := mustBakedGood(t, s, "Croquembouche", 9.5, b.ID)
		tieA := mustBakedGood(t, s, "Eclair", 4.0, b.ID)
		tieB := mustBakedGood(t, s, "Cannoli", 4.0, b.ID)

		byPrice, err := s.bakedGoods.List(ctx, repo.ListOptions{OrderBy: "price", Descending: true})
		require.NoError(t, err)

		ids := make([]int, len(byPrice))
		for i, bg := range byPrice {
			ids[i] = bg.ID
		}
		assert.Equal(t, []int{pricey.ID, tieA.ID, tieB.ID, cheap.ID}, ids)

		top, err := s.bakedGoods.List(ctx, repo.ListOptions{OrderBy: "price", Descending: true, Limit: 1})
		require.NoError(t, err)
		require.Len(t, top, 1)
		assert.Equal(t, pricey.ID, top[0].ID)

		byName, err := s.bakedGoods.List(ctx, repo.ListOptions{OrderBy: "name"})
		require.NoError(t, err)
		assert.Equal(t, "Cannoli", byName[0].Name)
	})
}

func TestBakedGoodRepository_ListRejectsUnknownColumn(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		_, err := s.bakedGoods.List(context.Background(), repo.ListOptions{OrderBy: "price; DROP TABLE bakeries"})
		assert.ErrorIs(t, err, repo.ErrInvalidOrderBy)
	})
}

func TestBakedGoodRepository_EmptyListing(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		all, err := s.bakedGoods.GetAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})
}

func TestBakedGoodRepository_GetAndDelete(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		b := mustBakery(t, s, "Incredible crullers")
		bg := mustBakedGood(t, s, "Cruller", 2.5, b.ID)

		got, err := s.bakedGoods.GetByID(ctx, bg.ID)
		require.NoError(t, err)
		assert.Equal(t, bg.Name, got.Name)
		assert.Equal(t, bg.Price, got.Price)
		assert.Equal(t, b.ID, got.BakeryID)
		assert.True(t, bg.CreatedAt.Equal(got.CreatedAt))

		require.NoError(t, s.bakedGoods.Delete(ctx, bg.ID))

		_, err = s.bakedGoods.GetByID(ctx, bg.ID)
		assert.ErrorIs(t, err, repo.ErrBakedGoodNotFound)
		assert.ErrorIs(t, s.bakedGoods.Delete(ctx, bg.ID), repo.ErrBakedGoodNotFound)

		byBakery, err := s.bakedGoods.GetByBakeryID(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, byBakery)
	})
}

func TestMetricsRepository_Dashboard(t *testing.T) {
	eachStore(t, func(t *testing.T, s stores) {
		ctx := context.Background()

		empty, err := s.metrics.GetDashboardMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, repo.Metrics{}, empty)

		donuts := mustBakery(t, s, "Delightful donuts")
		crullers := mustBakery(t, s, "Incredible crullers")
		mustBakery(t, s, "Empty shelves")
		mustBakedGood(t, s, "Donut", 2.0, donuts.ID)
		mustBakedGood(t, s, "Cruller", 3.0, crullers.ID)
		mustBakedGood(t, s, "Honey cruller", 4.0, crullers.ID)

		m, err := s.metrics.GetDashboardMetrics(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, m.TotalBakeries)
		assert.Equal(t, 3, m.TotalBakedGoods)
		assert.InDelta(t, 3.0, m.AveragePrice, 1e-9)
		assert.Equal(t, repo.TopBakery{Name: "Incredible crullers", BakedGoodsCount: 2}, m.TopBakery)
	})
}
