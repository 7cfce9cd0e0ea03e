package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

// Schema files are idempotent (IF NOT EXISTS) so Migrate can run on every start.
//
//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// Migrate applies the bundled schema for driver in file name order and
// returns the names of the files it executed.
func Migrate(ctx context.Context, conn *sql.DB, driver string) ([]string, error) {
	names, err := fs.Glob(migrationsFS, path.Join("migrations", driver, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no migrations bundled for driver %q", driver)
	}
	sort.Strings(names)

	applied := make([]string, 0, len(names))
	for _, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := conn.ExecContext(ctx, string(sqlBytes)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", name, err)
		}
		applied = append(applied, path.Base(name))
	}
	return applied, nil
}
