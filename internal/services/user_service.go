package services

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id string) (models.User, error)
	RegisterUser(username, email, password string) (models.User, error)
	AuthenticateUser(email, password string) (models.User, error)
	UpdateUser(id, username, email string) (models.User, error)
	UpdatePassword(id, currentPassword, newPassword string) error
	DeleteUser(id string) error
	GetPreferences(userID string) (models.Preferences, error)
	UpdatePreferences(userID string, prefs models.Preferences) (models.Preferences, error)
}

// UserService provides business logic for accounts and their preferences.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NewNotFoundError(fmt.Sprintf("user with ID %s not found", id))
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByEmail retrieves a single user by their email, including the password hash.
func (s *UserService) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, email, password_hash, created_at FROM users WHERE email = ?", email)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperrors.NewNotFoundError(fmt.Sprintf("user with email %s not found", email))
		}
		return models.User{}, err
	}
	return user, nil
}

// RegisterUser creates a new account with a hashed password and a default
// preferences row. A duplicate email is rejected with a conflict error.
func (s *UserService) RegisterUser(username, email, password string) (models.User, error) {
	var existingID string
	err := s.db.QueryRow("SELECT id FROM users WHERE email = ?", email).Scan(&existingID)
	if err == nil {
		return models.User{}, apperrors.NewConflictError("User already exists")
	}
	if err != sql.ErrNoRows {
		return models.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	if _, err = tx.Exec("INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash); err != nil {
		return models.User{}, err
	}
	if _, err = tx.Exec("INSERT INTO user_preferences(id, user_id) VALUES(?, ?)",
		uuid.New().String(), user.ID); err != nil {
		return models.User{}, err
	}
	if err = tx.Commit(); err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(user.ID)
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(email, password string) (models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return models.User{}, apperrors.NewAuthenticationError("Invalid credentials")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, apperrors.NewAuthenticationError("Invalid credentials")
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// UpdateUser updates a user's non-sensitive information.
func (s *UserService) UpdateUser(id, username, email string) (models.User, error) {
	stmt, err := s.db.Prepare("UPDATE users SET username = ?, email = ? WHERE id = ?")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(username, email, id)
	if err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(id)
}

// UpdatePassword verifies the current password, then hashes and sets a new password for a user.
func (s *UserService) UpdatePassword(id, currentPassword, newPassword string) error {
	var currentHash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&currentHash); err != nil {
		return apperrors.NewNotFoundError("could not find user to update password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(currentPassword)); err != nil {
		return apperrors.NewAuthenticationError("current password is incorrect")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", string(hashedPassword), id)
	return err
}

// DeleteUser removes a user from the database. Owned rows cascade.
func (s *UserService) DeleteUser(id string) error {
	_, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	return err
}

// GetPreferences retrieves the preferences row created at registration.
func (s *UserService) GetPreferences(userID string) (models.Preferences, error) {
	var p models.Preferences
	row := s.db.QueryRow(`
		SELECT id, user_id, currency, budget_alert_threshold, enable_notifications, theme, created_at
		FROM user_preferences WHERE user_id = ?`, userID)
	err := row.Scan(&p.ID, &p.UserID, &p.Currency, &p.BudgetAlertThreshold, &p.EnableNotifications, &p.Theme, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Preferences{}, apperrors.NewNotFoundError("preferences not found")
		}
		return models.Preferences{}, err
	}
	return p, nil
}

// UpdatePreferences overwrites the mutable preference fields.
func (s *UserService) UpdatePreferences(userID string, prefs models.Preferences) (models.Preferences, error) {
	_, err := s.db.Exec(`
		UPDATE user_preferences
		SET currency = ?, budget_alert_threshold = ?, enable_notifications = ?, theme = ?
		WHERE user_id = ?`,
		prefs.Currency, prefs.BudgetAlertThreshold, prefs.EnableNotifications, prefs.Theme, userID)
	if err != nil {
		return models.Preferences{}, err
	}
	return s.GetPreferences(userID)
}
