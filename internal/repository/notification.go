package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dawarsaada/siyana/internal/domain"
)

// notificationListCap bounds the notification feed to the most recent
// entries; older rows stay in the table but are not served.
const notificationListCap = 20

// NotificationRepository handles notification data access operations.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// List retrieves the most recent notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	err := r.db.SelectContext(ctx, &notifications,
		`SELECT id, message, type, timestamp, read, ticket_id
		 FROM notifications ORDER BY timestamp DESC LIMIT $1`, notificationListCap)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Create appends a notification.
func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (id, message, type, timestamp, read, ticket_id)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.Message, n.Type, n.Timestamp, n.Read, n.TicketID)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkRead flips the read flag on one notification.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead flips the read flag on every unread notification.
func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE read = FALSE`); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}
