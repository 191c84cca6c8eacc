package models

import "time"

// Budget is a per-category spending limit for a user.
type Budget struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Category    string    `json:"category"`
	LimitAmount float64   `json:"limitAmount"`
	Period      string    `json:"period"` // "monthly" or "yearly"
	CreatedAt   time.Time `json:"createdAt"`
}
