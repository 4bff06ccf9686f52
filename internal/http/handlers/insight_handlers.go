package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/insights"
)

// GenerateInsightsHandler godoc
// @Summary Generate AI business insights
// @Description Summarizes recent data of one domain and asks the AI model for insights.
// @Description When the model is unreachable or answers in an unexpected format the fixed fallback payload is returned with 200.
// @Tags insights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body insights.Request true "Domain (sales, inventory, customers, overall) and timespan (day, week, month, quarter, year)"
// @Success 200 {object} insights.Response
// @Failure 400 {string} string "Invalid request"
// @Failure 500 {string} string "Internal error"
// @Router /api/insights [post]
func GenerateInsightsHandler(w http.ResponseWriter, r *http.Request) {
	var req insights.Request
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if insightService == nil {
		http.Error(w, "insights are not configured", http.StatusServiceUnavailable)
		return
	}

	resp, err := insightService.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, insights.ErrInvalidRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Str("domain", string(req.DataType)).Msg("insight aggregation failed")
		http.Error(w, "could not generate insights", http.StatusInternalServerError)
		return
	}
	respond(w, http.StatusOK, resp)
}
