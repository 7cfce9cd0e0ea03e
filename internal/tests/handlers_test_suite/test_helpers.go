package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	handler "github.com/rogerio-castellano/bakery-api/internal/http/handlers"
	"github.com/rogerio-castellano/bakery-api/internal/models"
	"github.com/rogerio-castellano/bakery-api/internal/repo"
)

var (
	bakeryRepo    *repo.InMemoryBakeryRepository
	bakedGoodRepo *repo.InMemoryBakedGoodRepository
)

func init() {
	setupTestRepos()
}

func setupTestRepos() {
	bakedGoodRepo = repo.NewInMemoryBakedGoodRepository()
	handler.SetBakedGoodRepo(bakedGoodRepo)

	bakeryRepo = repo.NewInMemoryBakeryRepository(bakedGoodRepo)
	handler.SetBakeryRepo(bakeryRepo)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(bakeryRepo, bakedGoodRepo)
	handler.SetMetricsRepo(metricsRepo)
}

func clearAll() {
	bakedGoodRepo.Clear()
	bakeryRepo.Clear()
}

// There is no endpoint that creates bakeries, so tests insert them directly.
func createBakery(t *testing.T, name string) models.Bakery {
	t.Helper()
	b, err := bakeryRepo.Create(context.Background(), models.Bakery{Name: name})
	if err != nil {
		t.Fatalf("failed to create bakery %q: %v", name, err)
	}
	return b
}

func bakedGoodForm(name, price string, bakeryID int) url.Values {
	return url.Values{
		"name":      {name},
		"price":     {price},
		"bakery_id": {fmt.Sprint(bakeryID)},
	}
}

func sendForm(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createBakedGood(t *testing.T, r http.Handler, name, price string, bakeryID int) handler.BakedGoodResponse {
	t.Helper()
	w := sendForm(r, http.MethodPost, "/baked_goods", bakedGoodForm(name, price, bakeryID))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating %q, got %d: %s", name, w.Code, w.Body.String())
	}
	var resp handler.BakedGoodResponse
	decode(t, w, &resp)
	return resp
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}

func multipartFields(fields map[string]string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		writer.WriteField(k, v)
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func importCSV(r http.Handler, csvContent string) *httptest.ResponseRecorder {
	body, contentType := multipartCSV(csvContent, "baked_goods.csv")
	req := httptest.NewRequest(http.MethodPost, "/baked_goods/import", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
