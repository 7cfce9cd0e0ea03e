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

const bakedGoodColumns = `id, name, price, bakery_id, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBakedGood(row rowScanner) (models.BakedGood, error) {
	var bg models.BakedGood
	if err := row.Scan(&bg.ID, &bg.Name, &bg.Price, &bg.BakeryID, &bg.CreatedAt, &bg.UpdatedAt); err != nil {
		return models.BakedGood{}, err
	}
	bg.CreatedAt = bg.CreatedAt.UTC()
	bg.UpdatedAt = bg.UpdatedAt.UTC()
	return bg, nil
}

func queryBakedGoods(ctx context.Context, q queryer, query string, args ...any) ([]models.BakedGood, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bakedGoods := []models.BakedGood{}
	for rows.Next() {
		bg, err := scanBakedGood(rows)
		if err != nil {
			return nil, err
		}
		bakedGoods = append(bakedGoods, bg)
	}
	return bakedGoods, rows.Err()
}

// SQLBakedGoodRepository stores baked goods through database/sql. It works
// with the sqlite3 and pgx drivers.
type SQLBakedGoodRepository struct {
	db     *sql.DB
	driver string
}

func NewSQLBakedGoodRepository(conn *sql.DB, driver string) *SQLBakedGoodRepository {
	return &SQLBakedGoodRepository{db: conn, driver: driver}
}

func (r *SQLBakedGoodRepository) rebind(query string) string {
	return db.Rebind(r.driver, query)
}

func (r *SQLBakedGoodRepository) Create(ctx context.Context, bg models.BakedGood) (models.BakedGood, error) {
	defer metrics.ObserveDBQuery("insert", time.Now())
	query := r.rebind(`INSERT INTO baked_goods (name, price, bakery_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?) RETURNING id`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	bg.CreatedAt = now()
	bg.UpdatedAt = bg.CreatedAt
	err := db.InTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, bg.Name, bg.Price, bg.BakeryID, bg.CreatedAt, bg.UpdatedAt).Scan(&bg.ID)
	})
	if err != nil {
		return models.BakedGood{}, fmt.Errorf("insert baked good: %w", err)
	}
	return bg, nil
}

func (r *SQLBakedGoodRepository) GetAll(ctx context.Context) ([]models.BakedGood, error) {
	return r.List(ctx, ListOptions{})
}

func (r *SQLBakedGoodRepository) GetByID(ctx context.Context, id int) (models.BakedGood, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	query := r.rebind(`SELECT ` + bakedGoodColumns + ` FROM baked_goods WHERE id = ?`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	bg, err := scanBakedGood(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.BakedGood{}, ErrBakedGoodNotFound
	}
	return bg, err
}

func (r *SQLBakedGoodRepository) GetByBakeryID(ctx context.Context, bakeryID int) ([]models.BakedGood, error) {
	defer metrics.ObserveDBQuery("select", time.Now())
	query := r.rebind(`SELECT ` + bakedGoodColumns + ` FROM baked_goods WHERE bakery_id = ? ORDER BY id`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return queryBakedGoods(ctx, r.db, query, bakeryID)
}

// List orders by a whitelisted column; the column name is never taken from
// user input unchecked.
func (r *SQLBakedGoodRepository) List(ctx context.Context, opts ListOptions) ([]models.BakedGood, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveDBQuery("select", time.Now())

	query := fmt.Sprintf(`SELECT %s FROM baked_goods ORDER BY %s %s, id ASC`, bakedGoodColumns, opts.OrderBy, opts.direction())
	var args []any
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return queryBakedGoods(ctx, r.db, r.rebind(query), args...)
}

func (r *SQLBakedGoodRepository) Delete(ctx context.Context, id int) error {
	defer metrics.ObserveDBQuery("delete", time.Now())
	query := r.rebind(`DELETE FROM baked_goods WHERE id = ?`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return db.InTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrBakedGoodNotFound
		}
		return nil
	})
}
