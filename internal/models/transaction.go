package models

import "time"

// Transaction types.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Transaction represents a single income or expense entry in a user's ledger.
type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Type        string    `json:"type"` // "income" or "expense"
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Description string    `json:"description,omitempty"`
	Merchant    string    `json:"merchant,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
