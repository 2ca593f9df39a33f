package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dawarsaada/siyana/internal/domain"
)

// NotificationStore defines the notification persistence consumed by the
// Notifier.
type NotificationStore interface {
	Create(ctx context.Context, n domain.Notification) error
	List(ctx context.Context) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

// PushBroadcaster pushes a message out to subscribed browsers.
type PushBroadcaster interface {
	Broadcast(ctx context.Context, title, body, url string)
}

// Notifier appends notifications emitted by workflow, account, and branch
// mutations. Emission is best-effort: a failed write is logged and dropped,
// never propagated, so it cannot undo the state change it follows.
type Notifier struct {
	store NotificationStore
	push  PushBroadcaster
	now   func() time.Time
}

// NewNotifier creates a new Notifier. push may be nil when web push is not
// configured.
func NewNotifier(store NotificationStore, push PushBroadcaster) *Notifier {
	return &Notifier{store: store, push: push, now: time.Now}
}

// Notify appends one notification. ticketID may be empty for notifications
// not tied to a ticket.
func (n *Notifier) Notify(ctx context.Context, message string, typ domain.NotificationType, ticketID string) {
	notification := domain.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      typ,
		Timestamp: n.now(),
	}
	if ticketID != "" {
		notification.TicketID = &ticketID
	}

	if err := n.store.Create(ctx, notification); err != nil {
		slog.Error("notification write failed", "error", err, "message", message)
		return
	}

	if n.push != nil {
		n.push.Broadcast(ctx, "Dawar Saada Maintenance", message, "/")
	}
}

// List returns the most recent notifications, newest first.
func (n *Notifier) List(ctx context.Context) ([]domain.Notification, error) {
	return n.store.List(ctx)
}

// MarkRead flips the read flag on one notification.
func (n *Notifier) MarkRead(ctx context.Context, id string) error {
	return n.store.MarkRead(ctx, id)
}

// MarkAllRead flips the read flag on all unread notifications.
func (n *Notifier) MarkAllRead(ctx context.Context) error {
	return n.store.MarkAllRead(ctx)
}
