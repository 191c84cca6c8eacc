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

// GoalHandler handles HTTP requests for savings goals.
type GoalHandler struct {
	service    services.GoalServiceProvider
	insightSvc services.InsightServiceProvider
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(service services.GoalServiceProvider, insightSvc services.InsightServiceProvider) *GoalHandler {
	return &GoalHandler{service: service, insightSvc: insightSvc}
}

// GoalPayload defines the structure for new savings goals.
type GoalPayload struct {
	Name          string  `json:"goal_name" validate:"required"`
	TargetAmount  float64 `json:"target_amount" validate:"required,gt=0"`
	CurrentAmount float64 `json:"current_amount" validate:"gte=0"`
	Deadline      string  `json:"deadline" validate:"required,datetime=2006-01-02"`
}

// GetAll lists the authenticated user's goals.
func (h *GoalHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	goals, err := h.service.GetGoals(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list goals")
		writeError(w, err)
		return
	}
	if goals == nil {
		goals = []models.SavingsGoal{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

// Create adds a new savings goal.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var payload GoalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(w, "Missing required fields")
		return
	}

	goal, err := h.service.CreateGoal(models.SavingsGoal{
		UserID:        userID,
		Name:          payload.Name,
		TargetAmount:  payload.TargetAmount,
		CurrentAmount: payload.CurrentAmount,
		Deadline:      payload.Deadline,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create goal")
		writeError(w, err)
		return
	}

	h.insightSvc.Invalidate(userID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Goal created successfully",
		"goal":    goal,
	})
}

// Contribute adds an amount toward a goal's target.
func (h *GoalHandler) Contribute(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var payload struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(w, "Missing required fields")
		return
	}

	goal, err := h.service.Contribute(userID, id, payload.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	h.insightSvc.Invalidate(userID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"goal": goal})
}

// UpdateStatus sets a goal's lifecycle status.
func (h *GoalHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var payload struct {
		Status string `json:"status" validate:"required,oneof=active completed cancelled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(w, "Invalid goal status")
		return
	}

	goal, err := h.service.UpdateStatus(userID, id, payload.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	h.insightSvc.Invalidate(userID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"goal": goal})
}
