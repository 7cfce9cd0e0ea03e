package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/bakery-api/internal/db"
	"github.com/rogerio-castellano/bakery-api/internal/metrics"
	"github.com/rogerio-castellano/bakery-api/internal/models"
)

const bakeryColumns = `id, name, created_at, updated_at`

func scanBakery(row rowScanner) (models.Bakery, error) {
	var b models.Bakery
	if err := row.Scan(&b.ID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return models.Bakery{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	b.BakedGoods = []models.BakedGood{}
	return b, nil
}

// SQLBakeryRepository stores bakeries through database/sql. It works with the
// sqlite3 and pgx drivers.
type SQLBakeryRepository struct {
	db     *sql.DB
	driver string
}

func NewSQLBakeryRepository(conn *sql.DB, driver string) *SQLBakeryRepository {
	return &SQLBakeryRepository{db: conn, driver: driver}
}

func (r *SQLBakeryRepository) rebind(query string) string {
	return db.Rebind(r.driver, query)
}

func (r *SQLBakeryRepository) Create(ctx context.Context, b models.Bakery) (models.Bakery, error) {
	defer metrics.ObserveDBQuery("insert", time.Now())
	query := r.rebind(`INSERT INTO bakeries (name, created_at, updated_at) VALUES (?, ?, ?) RETURNING id`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	b.BakedGoods = []models.BakedGood{}
	err := db.InTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, b.Name, b.CreatedAt, b.UpdatedAt).Scan(&b.ID)
	})
	if err != nil {
		return models.Bakery{}, fmt.Errorf("insert bakery: %w", err)
	}
	return b, nil
}

// GetAll loads bakeries and baked goods with one query each and groups the
// goods in memory.
func (r *SQLBakeryRepository) GetAll(ctx context.Context) ([]models.Bakery, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+bakeryColumns+` FROM bakeries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bakeries := []models.Bakery{}
	index := map[int]int{}
	for rows.Next() {
		b, err := scanBakery(rows)
		if err != nil {
			return nil, err
		}
		index[b.ID] = len(bakeries)
		bakeries = append(bakeries, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	goods, err := queryBakedGoods(ctx, r.db, `SELECT `+bakedGoodColumns+` FROM baked_goods ORDER BY id`)
	if err != nil {
		return nil, err
	}
	for _, bg := range goods {
		if i, ok := index[bg.BakeryID]; ok {
			bakeries[i].BakedGoods = append(bakeries[i].BakedGoods, bg)
		}
	}
	return bakeries, nil
}

func (r *SQLBakeryRepository) GetByID(ctx context.Context, id int) (models.Bakery, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return r.getByID(ctx, r.db, id)
}

func (r *SQLBakeryRepository) getByID(ctx context.Context, q queryer, id int) (models.Bakery, error) {
	b, err := scanBakery(q.QueryRowContext(ctx, r.rebind(`SELECT `+bakeryColumns+` FROM bakeries WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Bakery{}, ErrBakeryNotFound
	}
	if err != nil {
		return models.Bakery{}, err
	}

	goods, err := queryBakedGoods(ctx, q, r.rebind(`SELECT `+bakedGoodColumns+` FROM baked_goods WHERE bakery_id = ? ORDER BY id`), id)
	if err != nil {
		return models.Bakery{}, err
	}
	b.BakedGoods = goods
	return b, nil
}

func (r *SQLBakeryRepository) Exists(ctx context.Context, id int) (bool, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, r.rebind(`SELECT COUNT(*) FROM bakeries WHERE id = ?`), id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateName renames the bakery and reads it back inside the same transaction.
// updated_at only moves when the name actually changes.
func (r *SQLBakeryRepository) UpdateName(ctx context.Context, id int, name string) (models.Bakery, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	query := r.rebind(`UPDATE bakeries
		SET name = ?, updated_at = CASE WHEN name <> ? THEN ? ELSE updated_at END
		WHERE id = ?`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var updated models.Bakery
	err := db.InTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, name, name, now(), id)
		if err != nil {
			return err
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrBakeryNotFound
		}
		updated, err = r.getByID(ctx, tx, id)
		return err
	})
	if err != nil {
		return models.Bakery{}, err
	}
	return updated, nil
}
