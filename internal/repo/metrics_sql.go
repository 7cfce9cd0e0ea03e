package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rogerio-castellano/bakery-api/internal/metrics"
)

type SQLMetricsRepository struct {
	db *sql.DB
}

func NewSQLMetricsRepository(conn *sql.DB) *SQLMetricsRepository {
	return &SQLMetricsRepository{db: conn}
}

func (r *SQLMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bakeries`).Scan(&m.TotalBakeries); err != nil {
		return m, err
	}
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(AVG(price), 0) FROM baked_goods`).
		Scan(&m.TotalBakedGoods, &m.AveragePrice)
	if err != nil {
		return m, err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT b.name, COUNT(g.id) AS cnt
		FROM bakeries b
		JOIN baked_goods g ON g.bakery_id = b.id
		GROUP BY b.id, b.name
		ORDER BY cnt DESC, b.id ASC
		LIMIT 1
	`).Scan(&m.TopBakery.Name, &m.TopBakery.BakedGoodsCount)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return m, err
	}

	return m, nil
}
