package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack-be/internal/models"
)

// countingTransactionService wraps the real service to count summary computations.
type countingTransactionService struct {
	*TransactionService
	summaryCalls int
}

func (c *countingTransactionService) GetMonthlySummary(userID string, month time.Time) (models.MonthlySummary, error) {
	c.summaryCalls++
	return c.TransactionService.GetMonthlySummary(userID, month)
}

func TestInsightService_CachesUntilInvalidated(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "alice", "alice@example.com")

	txSvc := &countingTransactionService{TransactionService: NewTransactionService(db)}
	svc := NewInsightService(txSvc)

	_, err := txSvc.AddTransaction(models.Transaction{
		UserID: userID, Type: models.TransactionIncome, Category: "Salary", Amount: 1000,
	})
	require.NoError(t, err)

	first, err := svc.GetDashboardSummary(userID)
	require.NoError(t, err)
	require.Equal(t, 1000.0, first.TotalIncome)
	require.Equal(t, 1, txSvc.summaryCalls)

	// Second read is served from cache.
	_, err = svc.GetDashboardSummary(userID)
	require.NoError(t, err)
	require.Equal(t, 1, txSvc.summaryCalls)

	// A ledger write invalidates; the next read recomputes.
	_, err = txSvc.AddTransaction(models.Transaction{
		UserID: userID, Type: models.TransactionExpense, Category: "Shopping", Amount: 250,
	})
	require.NoError(t, err)
	svc.Invalidate(userID)

	refreshed, err := svc.GetDashboardSummary(userID)
	require.NoError(t, err)
	require.Equal(t, 2, txSvc.summaryCalls)
	require.Equal(t, 250.0, refreshed.TotalExpenses)
	require.Equal(t, 750.0, refreshed.NetBalance)
}
