package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/bakery-api/internal/config"
	"github.com/rogerio-castellano/bakery-api/internal/db"
	handler "github.com/rogerio-castellano/bakery-api/internal/http/handlers"
	"github.com/rogerio-castellano/bakery-api/internal/models"
	"github.com/rogerio-castellano/bakery-api/internal/repo"
)

var (
	bakeryRepo *repo.SQLBakeryRepository
	database   *sql.DB
)

// testDatabaseConfig uses BAKERY_TEST_DATABASE_DRIVER and
// BAKERY_TEST_DATABASE_URL when set, e.g. to run against postgres, and a
// fresh sqlite file under dir otherwise.
func testDatabaseConfig(dir string) config.DatabaseConfig {
	cfg := config.DatabaseConfig{
		Driver:       os.Getenv("BAKERY_TEST_DATABASE_DRIVER"),
		URL:          os.Getenv("BAKERY_TEST_DATABASE_URL"),
		MaxOpenConns: 4,
	}
	if cfg.Driver == "" || cfg.URL == "" {
		cfg.Driver = db.DriverSQLite
		cfg.URL = filepath.Join(dir, "bakery_test.db")
	}
	return cfg
}

func setupTestRepos(cfg config.DatabaseConfig) error {
	var err error
	database, err = db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.Migrate(ctx, database, cfg.Driver); err != nil {
		return err
	}

	bakeryRepo = repo.NewSQLBakeryRepository(database, cfg.Driver)
	handler.SetBakeryRepo(bakeryRepo)
	handler.SetBakedGoodRepo(repo.NewSQLBakedGoodRepository(database, cfg.Driver))
	handler.SetMetricsRepo(repo.NewSQLMetricsRepository(database))
	return nil
}

func clearAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for _, table := range []string{"baked_goods", "bakeries"} {
		if _, err := database.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			fmt.Println(fmt.Errorf("failed to clear %s: %w", table, err))
		}
	}
}

func createBakery(t *testing.T, name string) models.Bakery {
	t.Helper()
	b, err := bakeryRepo.Create(context.Background(), models.Bakery{Name: name})
	if err != nil {
		t.Fatalf("failed to create bakery %q: %v", name, err)
	}
	return b
}

func countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func sendForm(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func send(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBakedGood(t *testing.T, r http.Handler, name, price string, bakeryID int) handler.BakedGoodResponse {
	t.Helper()
	form := url.Values{"name": {name}, "price": {price}, "bakery_id": {fmt.Sprint(bakeryID)}}
	w := sendForm(r, http.MethodPost, "/baked_goods", form)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating %q, got %d: %s", name, w.Code, w.Body.String())
	}
	var resp handler.BakedGoodResponse
	decode(t, w, &resp)
	return resp
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func importCSV(t *testing.T, r http.Handler, csvContent string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "baked_goods.csv")
	if err != nil {
		t.Fatalf("fail to create form file: %v", err)
	}
	if _, err := part.Write([]byte(csvContent)); err != nil {
		t.Fatalf("fail to write file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/baked_goods/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
