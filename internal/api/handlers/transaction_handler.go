package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/auth"
	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/internal/services"
)

// TransactionHandler handles HTTP requests for the transaction ledger.
type TransactionHandler struct {
	service    services.TransactionServiceProvider
	budgetSvc  services.BudgetServiceProvider
	insightSvc services.InsightServiceProvider
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(service services.TransactionServiceProvider, budgetSvc services.BudgetServiceProvider, insightSvc services.InsightServiceProvider) *TransactionHandler {
	return &TransactionHandler{service: service, budgetSvc: budgetSvc, insightSvc: insightSvc}
}

// TransactionPayload defines the structure for new ledger entries.
type TransactionPayload struct {
	Type        string  `json:"type" validate:"required,oneof=income expense"`
	Category    string  `json:"category" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant"`
}

// GetAll lists the authenticated user's transactions.
func (h *TransactionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	transactions, err := h.service.GetTransactions(userID, limit)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list transactions")
		writeError(w, err)
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": transactions})
}

// Create adds a ledger entry, refreshes the dashboard cache and runs the
// budget threshold check for expense categories.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var payload TransactionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(w, "Missing required fields (amount, category, type)")
		return
	}

	tx, err := h.service.AddTransaction(models.Transaction{
		UserID:      userID,
		Type:        payload.Type,
		Category:    payload.Category,
		Amount:      payload.Amount,
		Date:        payload.Date,
		Description: payload.Description,
		Merchant:    payload.Merchant,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to add transaction")
		writeError(w, err)
		return
	}

	h.insightSvc.Invalidate(userID)
	if tx.Type == models.TransactionExpense {
		if err := h.budgetSvc.CheckThreshold(userID, tx.Category, time.Now()); err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("category", tx.Category).Msg("Budget threshold check failed")
		}
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Transaction added successfully",
		"transaction": tx,
	})
}

// Delete removes a ledger entry.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteTransaction(userID, id); err != nil {
		writeError(w, err)
		return
	}
	h.insightSvc.Invalidate(userID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted successfully"})
}
