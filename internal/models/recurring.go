package models

import "time"

// RecurringTransaction is a template the background processor materializes
// into ledger transactions on its frequency.
type RecurringTransaction struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"` // "income" or "expense"
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description,omitempty"`
	Merchant      string    `json:"merchant,omitempty"`
	Frequency     string    `json:"frequency"` // "daily", "weekly", "monthly" or "yearly"
	StartDate     string    `json:"startDate"` // YYYY-MM-DD
	EndDate       *string   `json:"endDate,omitempty"`
	IsActive      bool      `json:"isActive"`
	LastProcessed *string   `json:"lastProcessed,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
