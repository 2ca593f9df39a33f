package domain

import "time"

// NotificationType represents the severity of a notification.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is an append-only emission from workflow, account, and branch
// mutations. Only the Read flag is ever mutated; notifications are never
// deleted by the core.
type Notification struct {
	ID        string           `json:"id" db:"id"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	Timestamp time.Time        `json:"timestamp" db:"timestamp"`
	Read      bool             `json:"read" db:"read"`
	TicketID  *string          `json:"ticket_id,omitempty" db:"ticket_id"`
}
