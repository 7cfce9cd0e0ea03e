package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rogerio-castellano/bakery-api/internal/config"
	"github.com/rogerio-castellano/bakery-api/internal/db"
	"github.com/rogerio-castellano/bakery-api/internal/http/handlers"
	"github.com/rogerio-castellano/bakery-api/internal/logger"
	"github.com/rogerio-castellano/bakery-api/internal/repo"
)

// boot loads config and installs the global logger.
func boot() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.Init(cfg.Log), nil
}

type store struct {
	bakeries   repo.BakeryRepository
	bakedGoods repo.BakedGoodRepository
	metrics    repo.MetricsRepository
	conn       *sql.DB
}

func (s *store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func newMemoryStore() *store {
	goods := repo.NewInMemoryBakedGoodRepository()
	bakeries := repo.NewInMemoryBakeryRepository(goods)
	metrics := repo.NewInMemoryMetricsRepository()
	metrics.SetRepositories(bakeries, goods)
	return &store{bakeries: bakeries, bakedGoods: goods, metrics: metrics}
}

// openSQLStore connects to the configured database and brings its schema up
// to date.
func openSQLStore(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*store, error) {
	conn, err := db.Connect(cfg)
	if err != nil {
		return nil, err
	}

	applied, err := db.Migrate(ctx, conn, cfg.Driver)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("driver", cfg.Driver).Strs("migrations", applied).Msg("database ready")

	return &store{
		bakeries:   repo.NewSQLBakeryRepository(conn, cfg.Driver),
		bakedGoods: repo.NewSQLBakedGoodRepository(conn, cfg.Driver),
		metrics:    repo.NewSQLMetricsRepository(conn),
		conn:       conn,
	}, nil
}

func (s *store) install() {
	handlers.SetBakeryRepo(s.bakeries)
	handlers.SetBakedGoodRepo(s.bakedGoods)
	handlers.SetMetricsRepo(s.metrics)
}
