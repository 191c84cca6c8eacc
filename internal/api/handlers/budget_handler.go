package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/auth"
	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/internal/services"
)

// BudgetHandler handles HTTP requests for budgets.
type BudgetHandler struct {
	service    services.BudgetServiceProvider
	insightSvc services.InsightServiceProvider
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(service services.BudgetServiceProvider, insightSvc services.InsightServiceProvider) *BudgetHandler {
	return &BudgetHandler{service: service, insightSvc: insightSvc}
}

// BudgetPayload defines the structure for budget create/update requests.
type BudgetPayload struct {
	Category    string  `json:"category" validate:"required"`
	LimitAmount float64 `json:"limit_amount" validate:"required,gt=0"`
	Period      string  `json:"period" validate:"omitempty,oneof=monthly yearly"`
}

// GetAll lists the authenticated user's budgets.
func (h *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	budgets, err := h.service.GetBudgets(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list budgets")
		writeError(w, err)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"budgets": budgets})
}

// Upsert creates a budget or replaces the limit for an existing category.
func (h *BudgetHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var payload BudgetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(w, "Missing required fields")
		return
	}

	budget, err := h.service.UpsertBudget(models.Budget{
		UserID:      userID,
		Category:    payload.Category,
		LimitAmount: payload.LimitAmount,
		Period:      payload.Period,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert budget")
		writeError(w, err)
		return
	}

	h.insightSvc.Invalidate(userID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Budget created/updated successfully",
		"budget":  budget,
	})
}

// Delete removes a budget.
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteBudget(userID, id); err != nil {
		writeError(w, err)
		return
	}
	h.insightSvc.Invalidate(userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Budget deleted successfully"})
}
