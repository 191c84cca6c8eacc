package services

import (
	"database/sql"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

// RecurringServiceProvider defines the interface for recurring transaction services.
type RecurringServiceProvider interface {
	GetRecurring(userID string) ([]models.RecurringTransaction, error)
	CreateRecurring(rt models.RecurringTransaction) (models.RecurringTransaction, error)
	UpdateRecurring(userID, id string, rt models.RecurringTransaction) (models.RecurringTransaction, error)
	DeleteRecurring(userID, id string) error
	GetAllActive() ([]models.RecurringTransaction, error)
	MarkProcessed(id, date string) error
}

// RecurringService provides business logic for recurring transaction templates.
type RecurringService struct {
	db *sql.DB
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(db *sql.DB) *RecurringService {
	return &RecurringService{db: db}
}

// GetRecurring retrieves all recurring templates for a user.
func (s *RecurringService) GetRecurring(userID string) ([]models.RecurringTransaction, error) {
	rows, err := s.db.Query(selectRecurring+" WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecurringRows(rows)
}

// GetRecurringByID retrieves a single template scoped to its owner.
func (s *RecurringService) GetRecurringByID(userID, id string) (models.RecurringTransaction, error) {
	row := s.db.QueryRow(selectRecurring+" WHERE id = ? AND user_id = ?", id, userID)
	return scanRecurring(row)
}

// CreateRecurring inserts a new recurring template.
func (s *RecurringService) CreateRecurring(rt models.RecurringTransaction) (models.RecurringTransaction, error) {
	rt.ID = uuid.New().String()
	rt.IsActive = true

	stmt, err := s.db.Prepare(`
		INSERT INTO recurring_transactions
		(id, user_id, type, category, amount, description, merchant, frequency, start_date, end_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.RecurringTransaction{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(rt.ID, rt.UserID, rt.Type, rt.Category, rt.Amount, rt.Description, rt.Merchant,
		rt.Frequency, rt.StartDate, rt.EndDate, rt.IsActive); err != nil {
		return models.RecurringTransaction{}, err
	}
	return s.GetRecurringByID(rt.UserID, rt.ID)
}

// UpdateRecurring replaces the mutable fields of a template.
func (s *RecurringService) UpdateRecurring(userID, id string, rt models.RecurringTransaction) (models.RecurringTransaction, error) {
	if _, err := s.GetRecurringByID(userID, id); err != nil {
		return models.RecurringTransaction{}, err
	}

	_, err := s.db.Exec(`
		UPDATE recurring_transactions
		SET type = ?, category = ?, amount = ?, description = ?, merchant = ?,
		    frequency = ?, start_date = ?, end_date = ?, is_active = ?
		WHERE id = ? AND user_id = ?`,
		rt.Type, rt.Category, rt.Amount, rt.Description, rt.Merchant,
		rt.Frequency, rt.StartDate, rt.EndDate, rt.IsActive, id, userID)
	if err != nil {
		return models.RecurringTransaction{}, err
	}
	return s.GetRecurringByID(userID, id)
}

// DeleteRecurring removes a template scoped to its owner.
func (s *RecurringService) DeleteRecurring(userID, id string) error {
	res, err := s.db.Exec("DELETE FROM recurring_transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("Recurring transaction not found")
	}
	return nil
}

// GetAllActive retrieves every active template across users, for the background processor.
func (s *RecurringService) GetAllActive() ([]models.RecurringTransaction, error) {
	rows, err := s.db.Query(selectRecurring + " WHERE is_active = TRUE")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecurringRows(rows)
}

// MarkProcessed stamps the date a template was last materialized.
func (s *RecurringService) MarkProcessed(id, date string) error {
	_, err := s.db.Exec("UPDATE recurring_transactions SET last_processed = ? WHERE id = ?", date, id)
	return err
}

const selectRecurring = `
	SELECT id, user_id, type, category, amount, description, merchant,
	       frequency, start_date, end_date, is_active, last_processed, created_at
	FROM recurring_transactions`

func scanRecurringRows(rows *sql.Rows) ([]models.RecurringTransaction, error) {
	var templates []models.RecurringTransaction
	for rows.Next() {
		rt, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, rt)
	}
	return templates, rows.Err()
}

func scanRecurring(scanner interface{ Scan(...interface{}) error }) (models.RecurringTransaction, error) {
	var rt models.RecurringTransaction
	var description, merchant, endDate, lastProcessed sql.NullString
	err := scanner.Scan(&rt.ID, &rt.UserID, &rt.Type, &rt.Category, &rt.Amount, &description, &merchant,
		&rt.Frequency, &rt.StartDate, &endDate, &rt.IsActive, &lastProcessed, &rt.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.RecurringTransaction{}, apperrors.NewNotFoundError("Recurring transaction not found")
		}
		return models.RecurringTransaction{}, err
	}
	rt.Description = description.String
	rt.Merchant = merchant.String
	if endDate.Valid {
		rt.EndDate = &endDate.String
	}
	if lastProcessed.Valid {
		rt.LastProcessed = &lastProcessed.String
	}
	return rt, nil
}
