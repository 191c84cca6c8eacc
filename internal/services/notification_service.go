package services

import (
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fintrackhq/fintrack-be/internal/models"
	"github.com/fintrackhq/fintrack-be/pkg/apperrors"
)

// NotificationPublisher pushes a payload to a user's connected clients.
// Satisfied by the websocket hub.
type NotificationPublisher interface {
	BroadcastTo(userID string, message []byte)
}

// NotificationServiceProvider defines the interface for notification services.
type NotificationServiceProvider interface {
	CreateNotification(userID, title, message, notificationType string) error
	GetNotifications(userID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(userID, notificationID string) error
}

// NotificationService persists notifications and pushes them over the stream.
type NotificationService struct {
	db        *sql.DB
	publisher NotificationPublisher
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(db *sql.DB, publisher NotificationPublisher) *NotificationService {
	return &NotificationService{db: db, publisher: publisher}
}

// CreateNotification stores a notification and pushes it to the owner's open
// connections. Users who disabled notifications get neither.
func (s *NotificationService) CreateNotification(userID, title, message, notificationType string) error {
	var enabled bool
	err := s.db.QueryRow(
		"SELECT enable_notifications FROM user_preferences WHERE user_id = ?", userID,
	).Scan(&enabled)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if err == nil && !enabled {
		return nil
	}

	notification := models.Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    notificationType,
	}

	stmt, err := s.db.Prepare("INSERT INTO notifications (id, user_id, title, message, type) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(notification.ID, notification.UserID, notification.Title, notification.Message, notification.Type); err != nil {
		return err
	}

	if s.publisher != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"action":  "notification",
			"payload": notification,
		})
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to encode notification push")
			return nil
		}
		s.publisher.BroadcastTo(userID, payload)
	}
	return nil
}

// GetNotifications retrieves a user's notifications, newest first.
func (s *NotificationService) GetNotifications(userID string, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += " AND is_read = FALSE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags a notification as read, scoped to its owner.
func (s *NotificationService) MarkRead(userID, notificationID string) error {
	res, err := s.db.Exec(
		"UPDATE notifications SET is_read = TRUE WHERE id = ? AND user_id = ?",
		notificationID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NewNotFoundError("Notification not found")
	}
	return nil
}
