package models

import "time"

// Savings goal statuses.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalCancelled = "cancelled"
)

// SavingsGoal tracks progress toward a savings target with a deadline.
type SavingsGoal struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"goalName"`
	TargetAmount  float64   `json:"targetAmount"`
	CurrentAmount float64   `json:"currentAmount"`
	Deadline      string    `json:"deadline"` // YYYY-MM-DD
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}
