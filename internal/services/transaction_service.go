package services

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

// TransactionServiceProvider defines the interface for ledger services.
type TransactionServiceProvider interface {
	GetTransactions(userID string, limit int) ([]models.Transaction, error)
	AddTransaction(tx models.Transaction) (models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
	GetMonthlySummary(userID string, month time.Time) (models.MonthlySummary, error)
}

// TransactionService provides business logic for the transaction ledger.
type TransactionService struct {
	db *sql.DB
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(db *sql.DB) *TransactionService {
	return &TransactionService{db: db}
}

// GetTransactions retrieves a user's transactions, newest first.
func (s *TransactionService) GetTransactions(userID string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, type, category, amount, transaction_date, description, merchant, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// AddTransaction inserts a new ledger entry. The date defaults to today.
func (s *TransactionService) AddTransaction(tx models.Transaction) (models.Transaction, error) {
	tx.ID = uuid.New().String()
	if tx.Date == "" {
		tx.Date = time.Now().Format("2006-01-02")
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO transactions (id, user_id, type, category, amount, transaction_date, description, merchant)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Transaction{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(tx.ID, tx.UserID, tx.Type, tx.Category, tx.Amount, tx.Date, tx.Description, tx.Merchant); err != nil {
		return models.Transaction{}, err
	}
	return s.getTransactionByID(tx.UserID, tx.ID)
}

// DeleteTransaction removes a ledger entry scoped to its owner.
func (s *TransactionService) DeleteTransaction(userID, transactionID string) error {
	res, err := s.db.Exec("DELETE FROM transactions WHERE id = ? AND user_id = ?", transactionID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("Transaction not found")
	}
	return nil
}

// GetMonthlySummary aggregates income, expenses and counts for the month containing the given time.
func (s *TransactionService) GetMonthlySummary(userID string, month time.Time) (models.MonthlySummary, error) {
	var summary models.MonthlySummary

	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	row := s.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0),
			COUNT(*)
		FROM transactions
		WHERE user_id = ? AND transaction_date >= ? AND transaction_date < ?`,
		userID, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"))
	if err := row.Scan(&summary.TotalIncome, &summary.TotalExpenses, &summary.TransactionCount); err != nil {
		return models.MonthlySummary{}, err
	}
	summary.NetBalance = summary.TotalIncome - summary.TotalExpenses

	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM savings_goals WHERE user_id = ? AND status = 'active'", userID,
	).Scan(&summary.ActiveGoals); err != nil {
		return models.MonthlySummary{}, err
	}
	if err := s.db.QueryRow(
		"SELECT COUNT(*) FROM budgets WHERE user_id = ?", userID,
	).Scan(&summary.ActiveBudgets); err != nil {
		return models.MonthlySummary{}, err
	}

	return summary, nil
}

func (s *TransactionService) getTransactionByID(userID, id string) (models.Transaction, error) {
	row := s.db.QueryRow(`
		SELECT id, user_id, type, category, amount, transaction_date, description, merchant, created_at
		FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	return scanTransaction(row)
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}

func scanTransaction(scanner interface{ Scan(...interface{}) error }) (models.Transaction, error) {
	var tx models.Transaction
	var description, merchant sql.NullString
	err := scanner.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Category, &tx.Amount, &tx.Date, &description, &merchant, &tx.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Transaction{}, apperrors.NewNotFoundError("Transaction not found")
		}
		return models.Transaction{}, err
	}
	tx.Description = description.String
	tx.Merchant = merchant.String
	return tx, nil
}
