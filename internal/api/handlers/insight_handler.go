package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/auth"
	"github.com/fintrackhq/fintrack-be/internal/services"
)

// InsightHandler serves dashboard aggregates.
type InsightHandler struct {
	service services.InsightServiceProvider
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(service services.InsightServiceProvider) *InsightHandler {
	return &InsightHandler{service: service}
}

// GetSummary returns the current-month dashboard summary for the authenticated user.
func (h *InsightHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	summary, err := h.service.GetDashboardSummary(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to compute dashboard summary")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"summary": summary})
}
