package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rogerio-castellano/bakery-api/internal/config"
)

// Supported database/sql driver names.
const (
	DriverSQLite = "sqlite3"
	DriverPgx    = "pgx"
)

// Connect opens the configured database and verifies it answers a ping.
func Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	dsn := cfg.URL
	switch cfg.Driver {
	case DriverSQLite:
		dsn = sqliteDSN(cfg.URL)
	case DriverPgx:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// sqliteDSN turns on foreign key enforcement and a busy timeout unless the
// caller already set them.
func sqliteDSN(url string) string {
	var params []string
	if !strings.Contains(url, "_foreign_keys") && !strings.Contains(url, "_fk") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(url, "_busy_timeout") && !strings.Contains(url, "_timeout") {
		params = append(params, "_busy_timeout=5000")
	}
	if len(params) == 0 {
		return url
	}

	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&")
}

// Rebind rewrites ? placeholders into $1, $2, ... for drivers that need
// numbered parameters.
func Rebind(driver, query string) string {
	if driver != DriverPgx {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
