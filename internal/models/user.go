package models

import "time"

// User represents a registered account in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// Preferences holds per-user settings created alongside registration.
type Preferences struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"userId"`
	Currency             string    `json:"currency"`
	BudgetAlertThreshold int       `json:"budgetAlertThreshold"` // percent of budget spent that triggers an alert
	EnableNotifications  bool      `json:"enableNotifications"`
	Theme                string    `json:"theme"`
	CreatedAt            time.Time `json:"createdAt"`
}
