package models

import "time"

// Notification types.
const (
	NotificationBudgetAlert  = "budget_alert"
	NotificationGoalReminder = "goal_reminder"
	NotificationInsight      = "insight"
	NotificationGeneral      = "general"
)

// Notification is a user-facing alert persisted and pushed over the event stream.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
