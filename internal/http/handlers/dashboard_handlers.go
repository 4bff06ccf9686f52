package handlers

import (
	"net/http"
)

// GetDashboardHandler godoc
// @Summary Dashboard figures for the analytics view
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Dashboard
// @Failure 500 {string} string "Internal error"
// @Router /api/analytics/dashboard [get]
func GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	d, err := dashboardRepo.GetDashboard(r.Context())
	if err != nil {
		logger.Error().Err(err).Msg("dashboard query failed")
		http.Error(w, "failed to fetch dashboard", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, d)
}

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResult
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, HealthResult{Status: "ok"})
}
