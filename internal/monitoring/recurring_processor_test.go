package monitoring

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack-be/internal/database"
	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/internal/services"
)

func strPtr(s string) *string { return &s }

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		template models.RecurringTransaction
		want     bool
	}{
		{
			name:     "not started yet",
			template: models.RecurringTransaction{Frequency: "daily", StartDate: "2026-09-01"},
			want:     false,
		},
		{
			name:     "started and never processed",
			template: models.RecurringTransaction{Frequency: "monthly", StartDate: "2026-01-01"},
			want:     true,
		},
		{
			name: "daily processed yesterday",
			template: models.RecurringTransaction{
				Frequency: "daily", StartDate: "2026-01-01", LastProcessed: strPtr("2026-08-14"),
			},
			want: true,
		},
		{
			name: "daily already processed today",
			template: models.RecurringTransaction{
				Frequency: "daily", StartDate: "2026-01-01", LastProcessed: strPtr("2026-08-15"),
			},
			want: false,
		},
		{
			name: "monthly processed last month",
			template: models.RecurringTransaction{
				Frequency: "monthly", StartDate: "2026-01-01", LastProcessed: strPtr("2026-07-10"),
			},
			want: true,
		},
		{
			name: "monthly processed this month",
			template: models.RecurringTransaction{
				Frequency: "monthly", StartDate: "2026-01-01", LastProcessed: strPtr("2026-08-02"),
			},
			want: false,
		},
		{
			name: "past its end date",
			template: models.RecurringTransaction{
				Frequency: "daily", StartDate: "2026-01-01", EndDate: strPtr("2026-08-10"),
			},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			due, err := isDue(tc.template, now)
			require.NoError(t, err)
			require.Equal(t, tc.want, due)
		})
	}
}

func TestIsDue_UnknownFrequency(t *testing.T) {
	_, err := isDue(models.RecurringTransaction{Frequency: "fortnightly", StartDate: "2026-01-01"}, time.Now())
	require.Error(t, err)
}

// discardPublisher satisfies the hub's role for tests that don't watch pushes.
type discardPublisher struct{}

func (discardPublisher) BroadcastTo(string, []byte) {}

// Runs the processor against templates loaded from a real database, so the
// due check sees dates exactly as the driver returns them.
func TestRecurringProcessor_MaterializesStoredTemplate(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	user, err := services.NewUserService(db).RegisterUser("alice", "alice@example.com", "s3cret7")
	require.NoError(t, err)

	recurringSvc := services.NewRecurringService(db)
	transactionSvc := services.NewTransactionService(db)
	notificationSvc := services.NewNotificationService(db, discardPublisher{})
	insightSvc := services.NewInsightService(transactionSvc)

	created, err := recurringSvc.CreateRecurring(models.RecurringTransaction{
		UserID:    user.ID,
		Type:      models.TransactionExpense,
		Category:  "Subscriptions",
		Amount:    9.99,
		Frequency: "monthly",
		StartDate: "2026-01-01",
	})
	require.NoError(t, err)

	p := NewRecurringProcessor(recurringSvc, transactionSvc, notificationSvc, insightSvc)
	now := time.Now()
	p.processDue(now)

	transactions, err := transactionSvc.GetTransactions(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, 9.99, transactions[0].Amount)
	require.Equal(t, now.Format("2006-01-02"), transactions[0].Date)

	// The template is stamped, so the same tick never double-posts.
	stamped, err := recurringSvc.GetRecurringByID(user.ID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stamped.LastProcessed)
	require.Equal(t, now.Format("2006-01-02"), *stamped.LastProcessed)

	p.processDue(now)
	transactions, err = transactionSvc.GetTransactions(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
}
