package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

func TestGoalService_ContributeCompletesGoal(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "alice", "alice@example.com")
	publisher := &capturingPublisher{}
	svc := NewGoalService(db, NewNotificationService(db, publisher))

	goal, err := svc.CreateGoal(models.SavingsGoal{
		UserID: userID, Name: "Emergency fund", TargetAmount: 1000, Deadline: "2027-06-01",
	})
	require.NoError(t, err)
	require.Equal(t, models.GoalActive, goal.Status)
	require.Equal(t, "2027-06-01", goal.Deadline)

	goal, err = svc.Contribute(userID, goal.ID, 400)
	require.NoError(t, err)
	require.Equal(t, 400.0, goal.CurrentAmount)
	require.Equal(t, models.GoalActive, goal.Status)
	require.Empty(t, publisher.userIDs)

	goal, err = svc.Contribute(userID, goal.ID, 600)
	require.NoError(t, err)
	require.Equal(t, 1000.0, goal.CurrentAmount)
	require.Equal(t, models.GoalCompleted, goal.Status)
	require.Equal(t, []string{userID}, publisher.userIDs, "completion notifies the owner")

	// A completed goal takes no further contributions.
	_, err = svc.Contribute(userID, goal.ID, 1)
	require.IsType(t, &apperrors.ValidationError{}, err)
}

func TestGoalService_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	svc := NewGoalService(db, NewNotificationService(db, nil))

	goal, err := svc.CreateGoal(models.SavingsGoal{
		UserID: alice, Name: "Car", TargetAmount: 5000, Deadline: "2027-01-01",
	})
	require.NoError(t, err)

	_, err = svc.Contribute(bob, goal.ID, 100)
	require.IsType(t, &apperrors.NotFoundError{}, err)

	goals, err := svc.GetGoals(bob)
	require.NoError(t, err)
	require.Empty(t, goals)
}
