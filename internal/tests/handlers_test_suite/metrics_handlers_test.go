package handlers_test_suite

import (
	"math"
	"net/http"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/bakery-api/internal/http"
	"github.com/rogerio-castellano/bakery-api/internal/repo"
)

func TestDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	donuts := createBakery(t, "Delightful donuts")
	crullers := createBakery(t, "Incredible crullers")
	createBakery(t, "Empty shelves")

	createBakedGood(t, r, "Glazed donut", "2.00", donuts.ID)
	createBakedGood(t, r, "Jelly donut", "3.00", donuts.ID)
	createBakedGood(t, r, "Plain cruller", "4.00", crullers.ID)

	w := get(r, "/metrics/dashboard")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var metrics repo.Metrics
	decode(t, w, &metrics)

	if metrics.TotalBakeries != 3 {
		t.Errorf("expected 3 bakeries, got %d", metrics.TotalBakeries)
	}
	if metrics.TotalBakedGoods != 3 {
		t.Errorf("expected 3 baked goods, got %d", metrics.TotalBakedGoods)
	}
	if math.Abs(metrics.AveragePrice-3.0) > 1e-9 {
		t.Errorf("expected average price 3.0, got %f", metrics.AveragePrice)
	}
	if metrics.TopBakery.Name != "Delightful donuts" || metrics.TopBakery.BakedGoodsCount != 2 {
		t.Errorf("unexpected top bakery %+v", metrics.TopBakery)
	}
}

func TestDashboardMetricsHandlerEmpty(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := get(r, "/metrics/dashboard")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var metrics repo.Metrics
	decode(t, w, &metrics)
	if metrics.TotalBakeries != 0 || metrics.TotalBakedGoods != 0 || metrics.AveragePrice != 0 {
		t.Errorf("expected zeroed metrics, got %+v", metrics)
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	r := api.NewRouter()
	get(r, "/")

	w := get(r, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "bakery_http_requests_total") {
		t.Errorf("expected request counter in exposition output")
	}
}
