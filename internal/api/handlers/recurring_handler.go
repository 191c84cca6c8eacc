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

// RecurringHandler handles HTTP requests for recurring transaction templates.
type RecurringHandler struct {
	service services.RecurringServiceProvider
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(service services.RecurringServiceProvider) *RecurringHandler {
	return &RecurringHandler{service: service}
}

// RecurringPayload defines the structure for recurring template requests.
type RecurringPayload struct {
	Type        string  `json:"type" validate:"required,oneof=income expense"`
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant"`
	Frequency   string  `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	StartDate   string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate     *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsActive    bool    `json:"isActive"`
}

// GetAll lists the authenticated user's recurring templates.
func (h *RecurringHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	templates, err := h.service.GetRecurring(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list recurring transactions")
		writeError(w, err)
		return
	}
	if templates == nil {
		templates = []models.RecurringTransaction{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recurring": templates})
}

// Create adds a new recurring template.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	payload, ok := decodeRecurringPayload(w, r)
	if !ok {
		return
	}

	rt, err := h.service.CreateRecurring(models.RecurringTransaction{
		UserID:      userID,
		Type:        payload.Type,
		Category:    payload.Category,
		Amount:      payload.Amount,
		Description: payload.Description,
		Merchant:    payload.Merchant,
		Frequency:   payload.Frequency,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create recurring transaction")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"recurring": rt})
}

// Update replaces the mutable fields of a template.
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	payload, ok := decodeRecurringPayload(w, r)
	if !ok {
		return
	}

	rt, err := h.service.UpdateRecurring(userID, id, models.RecurringTransaction{
		Type:        payload.Type,
		Category:    payload.Category,
		Amount:      payload.Amount,
		Description: payload.Description,
		Merchant:    payload.Merchant,
		Frequency:   payload.Frequency,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recurring": rt})
}

// Delete removes a template.
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteRecurring(userID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Recurring transaction deleted successfully"})
}

func decodeRecurringPayload(w http.ResponseWriter, r *http.Request) (RecurringPayload, bool) {
	var payload RecurringPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return payload, false
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(w, "Missing required fields")
		return payload, false
	}
	return payload, true
}
