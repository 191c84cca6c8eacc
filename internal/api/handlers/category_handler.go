package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/internal/services"
)

// CategoryHandler serves the reference category list.
type CategoryHandler struct {
	service services.CategoryServiceProvider
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service services.CategoryServiceProvider) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// GetAll lists categories, optionally filtered by ?type=income|expense.
func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categoryType := r.URL.Query().Get("type")

	categories, err := h.service.GetCategories(categoryType)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list categories")
		writeError(w, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}
