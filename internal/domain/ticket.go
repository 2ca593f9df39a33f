package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TicketStatus represents the lifecycle state of a maintenance ticket.
type TicketStatus string

const (
	StatusPendingOMReview             TicketStatus = "PENDING_OM_REVIEW"
	StatusPendingCEOApproval          TicketStatus = "PENDING_CEO_APPROVAL"
	StatusCEORejected                 TicketStatus = "CEO_REJECTED"
	StatusOMRejected                  TicketStatus = "OM_REJECTED"
	StatusApprovedPendingResolution   TicketStatus = "APPROVED_PENDING_RESOLUTION"
	StatusInProgress                  TicketStatus = "IN_PROGRESS"
	StatusResolvedPendingVerification TicketStatus = "RESOLVED_PENDING_VERIFICATION"
	StatusClosed                      TicketStatus = "CLOSED"
	StatusReIssued                    TicketStatus = "RE_ISSUED"
)

// Priority represents the urgency of a ticket.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether the priority is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Comment is one entry of a ticket's append-only audit trail. Comments are
// never edited or deleted.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Comments is the ordered comment log, stored as a JSONB column.
type Comments []Comment

// Value implements driver.Valuer for JSONB storage.
func (c Comments) Value() (driver.Value, error) {
	if c == nil {
		c = Comments{}
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB storage.
func (c *Comments) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = Comments{}
		return nil
	}
	return fmt.Errorf("scan comments: unsupported type %T", src)
}

// Media is an ordered list of attachment references, stored as a JSONB
// column.
type Media []string

// Value implements driver.Valuer for JSONB storage.
func (m Media) Value() (driver.Value, error) {
	if m == nil {
		m = Media{}
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for JSONB storage.
func (m *Media) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = Media{}
		return nil
	}
	return fmt.Errorf("scan media: unsupported type %T", src)
}

// Ticket represents a reported maintenance issue tracked through the
// workflow. Comments are embedded and owned by the ticket.
type Ticket struct {
	ID          string       `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Branch      string       `json:"branch" db:"branch"`
	Status      TicketStatus `json:"status" db:"status"`
	Priority    Priority     `json:"priority" db:"priority"`
	CreatedBy   string       `json:"created_by" db:"created_by"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	Comments    Comments     `json:"comments" db:"comments"`
	Media       Media        `json:"media" db:"media"`
}
