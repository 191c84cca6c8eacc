package models

// MonthlySummary aggregates the current month's ledger activity for the dashboard.
type MonthlySummary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpenses    float64 `json:"total_expenses"`
	NetBalance       float64 `json:"net_balance"`
	TransactionCount int     `json:"transaction_count"`
	ActiveGoals      int     `json:"active_goals"`
	ActiveBudgets    int     `json:"active_budgets"`
}
