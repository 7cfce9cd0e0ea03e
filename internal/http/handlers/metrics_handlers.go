package handlers

import (
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics
// @Description Bakery and baked good totals, average price and the bakery with the most goods
// @Tags metrics
// @Produce json
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ErrorResponse
// @Router /metrics/dashboard [get]
func GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := metricsRepo.GetDashboardMetrics(r.Context())
	if err != nil {
		respondInternal(w, r, err, "failed to fetch metrics")
		return
	}
	respond(w, r, http.StatusOK, m)
}
