package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack-be/internal/database"
)

// setupTestDB creates a migrated sqlite database in a temp dir.
// It is closed when the test completes.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(dbPath)
	require.NoError(t, err, "Failed to create test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate test database")
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser registers a user through the service and returns its ID.
func createTestUser(t *testing.T, db *sql.DB, username, email string) string {
	t.Helper()
	user, err := NewUserService(db).RegisterUser(username, email, "s3cret7")
	require.NoError(t, err)
	return user.ID
}

// capturingPublisher records notification pushes.
type capturingPublisher struct {
	userIDs  []string
	payloads [][]byte
}

func (p *capturingPublisher) BroadcastTo(userID string, message []byte) {
	p.userIDs = append(p.userIDs, userID)
	p.payloads = append(p.payloads, message)
}
