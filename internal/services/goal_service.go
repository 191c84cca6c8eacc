package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

// GoalServiceProvider defines the interface for savings goal services.
type GoalServiceProvider interface {
	GetGoals(userID string) ([]models.SavingsGoal, error)
	CreateGoal(goal models.SavingsGoal) (models.SavingsGoal, error)
	Contribute(userID, goalID string, amount float64) (models.SavingsGoal, error)
	UpdateStatus(userID, goalID, status string) (models.SavingsGoal, error)
}

// GoalService provides business logic for savings goals.
type GoalService struct {
	db              *sql.DB
	notificationSvc NotificationServiceProvider
}

// NewGoalService creates a new GoalService.
func NewGoalService(db *sql.DB, notificationSvc NotificationServiceProvider) *GoalService {
	return &GoalService{db: db, notificationSvc: notificationSvc}
}

// GetGoals retrieves all of a user's goals ordered by deadline.
func (s *GoalService) GetGoals(userID string) ([]models.SavingsGoal, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, goal_name, target_amount, current_amount, deadline, status, created_at
		FROM savings_goals WHERE user_id = ? ORDER BY deadline`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.SavingsGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// GetGoalByID retrieves a single goal scoped to its owner.
func (s *GoalService) GetGoalByID(userID, goalID string) (models.SavingsGoal, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, goal_name, target_amount, current_amount, deadline, status, created_at
		FROM savings_goals WHERE id = ? AND user_id = ?`, goalID, userID)
	return scanGoal(row)
}

// CreateGoal inserts a new savings goal in the active state.
func (s *GoalService) CreateGoal(goal models.SavingsGoal) (models.SavingsGoal, error) {
	goal.ID = uuid.New().String()
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO savings_goals (id, user_id, goal_name, target_amount, current_amount, deadline, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.SavingsGoal{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.Deadline, goal.Status); err != nil {
		return models.SavingsGoal{}, err
	}
	return s.GetGoalByID(goal.UserID, goal.ID)
}

// Contribute adds to a goal's saved amount and marks it completed when the
// target is reached, notifying the owner.
func (s *GoalService) Contribute(userID, goalID string, amount float64) (models.SavingsGoal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return models.SavingsGoal{}, err
	}
	if goal.Status != models.GoalActive {
		return models.SavingsGoal{}, apperrors.NewValidationError("goal is not active")
	}

	newAmount := goal.CurrentAmount + amount
	status := goal.Status
	if newAmount >= goal.TargetAmount {
		status = models.GoalCompleted
	}

	_, err = s.db.Exec(
		"UPDATE savings_goals SET current_amount = ?, status = ? WHERE id = ? AND user_id = ?",
		newAmount, status, goalID, userID)
	if err != nil {
		return models.SavingsGoal{}, err
	}

	if status == models.GoalCompleted && goal.Status != models.GoalCompleted {
		msg := fmt.Sprintf("Savings goal '%s' reached its target of %.2f.", goal.Name, goal.TargetAmount)
		if err := s.notificationSvc.CreateNotification(userID, "Goal completed", msg, models.NotificationGoalReminder); err != nil {
			return models.SavingsGoal{}, err
		}
	}
	return s.GetGoalByID(userID, goalID)
}

// UpdateStatus sets a goal's lifecycle status.
func (s *GoalService) UpdateStatus(userID, goalID, status string) (models.SavingsGoal, error) {
	switch status {
	case models.GoalActive, models.GoalCompleted, models.GoalCancelled:
	default:
		return models.SavingsGoal{}, apperrors.NewValidationError("invalid goal status")
	}
	_, err := s.db.Exec("UPDATE savings_goals SET status = ? WHERE id = ? AND user_id = ?", status, goalID, userID)
	if err != nil {
		return models.SavingsGoal{}, err
	}
	return s.GetGoalByID(userID, goalID)
}

func scanGoal(scanner interface{ Scan(...interface{}) error }) (models.SavingsGoal, error) {
	var goal models.SavingsGoal
	err := scanner.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentAmount, &goal.Deadline, &goal.Status, &goal.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.SavingsGoal{}, apperrors.NewNotFoundError("Goal not found")
		}
		return models.SavingsGoal{}, err
	}
	return goal, nil
}
