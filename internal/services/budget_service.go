package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-be/internal/models"
)

// BudgetServiceProvider defines the interface for budget services.
type BudgetServiceProvider interface {
	GetBudgets(userID string) ([]models.Budget, error)
	UpsertBudget(budget models.Budget) (models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	CheckThreshold(userID, category string, now time.Time) error
}

// BudgetService provides business logic for per-category spending limits.
type BudgetService struct {
	db              *sql.DB
	notificationSvc NotificationServiceProvider
}

// NewBudgetService creates a new BudgetService.
func NewBudgetService(db *sql.DB, notificationSvc NotificationServiceProvider) *BudgetService {
	return &BudgetService{db: db, notificationSvc: notificationSvc}
}

// GetBudgets retrieves all budgets for a user, ordered by category.
func (s *BudgetService) GetBudgets(userID string) ([]models.Budget, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, category, limit_amount, period, created_at
		FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.LimitAmount, &b.Period, &b.CreatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// UpsertBudget creates a budget or replaces the limit for an existing (user, category) pair.
func (s *BudgetService) UpsertBudget(budget models.Budget) (models.Budget, error) {
	if budget.Period == "" {
		budget.Period = "monthly"
	}
	budget.ID = uuid.New().String()

	stmt, err := s.db.Prepare(`
		INSERT INTO budgets (id, user_id, category, limit_amount, period)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category)
		DO UPDATE SET limit_amount = excluded.limit_amount, period = excluded.period`)
	if err != nil {
		return models.Budget{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(budget.ID, budget.UserID, budget.Category, budget.LimitAmount, budget.Period); err != nil {
		return models.Budget{}, err
	}

	row := s.db.QueryRow(`
		SELECT id, user_id, category, limit_amount, period, created_at
		FROM budgets WHERE user_id = ? AND category = ?`, budget.UserID, budget.Category)
	var b models.Budget
	if err := row.Scan(&b.ID, &b.UserID, &b.Category, &b.LimitAmount, &b.Period, &b.CreatedAt); err != nil {
		return models.Budget{}, err
	}
	return b, nil
}

// DeleteBudget removes a budget scoped to its owner.
func (s *BudgetService) DeleteBudget(userID, budgetID string) error {
	_, err := s.db.Exec("DELETE FROM budgets WHERE id = ? AND user_id = ?", budgetID, userID)
	return err
}

// CheckThreshold compares the month's spend in a category against the user's
// budget and alert threshold, emitting a budget_alert notification when crossed.
func (s *BudgetService) CheckThreshold(userID, category string, now time.Time) error {
	var limit float64
	err := s.db.QueryRow(
		"SELECT limit_amount FROM budgets WHERE user_id = ? AND category = ?",
		userID, category).Scan(&limit)
	if err == sql.ErrNoRows {
		return nil // no budget for this category
	}
	if err != nil {
		return err
	}

	threshold := 80
	if err := s.db.QueryRow(
		"SELECT budget_alert_threshold FROM user_preferences WHERE user_id = ?", userID,
	).Scan(&threshold); err != nil && err != sql.ErrNoRows {
		return err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var spent float64
	if err := s.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE user_id = ? AND category = ? AND type = 'expense'
		AND transaction_date >= ? AND transaction_date < ?`,
		userID, category, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"),
	).Scan(&spent); err != nil {
		return err
	}

	if limit <= 0 || spent/limit*100 < float64(threshold) {
		return nil
	}

	msg := fmt.Sprintf("You have spent %.2f of your %.2f budget for %s this month.", spent, limit, category)
	return s.notificationSvc.CreateNotification(userID, "Budget alert", msg, models.NotificationBudgetAlert)
}
