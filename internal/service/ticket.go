package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dawarsaada/siyana/internal/domain"
	"github.com/dawarsaada/siyana/internal/workflow"
)

const (
	maxMediaAttachments = 5

	// How many fresh ids to try when a generated ticket id collides.
	maxIDAttempts = 5
)

// TicketStore defines the ticket persistence consumed by TicketService.
type TicketStore interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	Create(ctx context.Context, ticket domain.Ticket) error
	UpdateWorkflow(ctx context.Context, ticket domain.Ticket) error
	Delete(ctx context.Context, ids []string) (int64, error)
}

// BranchDirectory resolves branch references at ticket creation time.
type BranchDirectory interface {
	FindByName(ctx context.Context, nameEN string) (*domain.Branch, error)
}

// CreateTicketInput carries the fields of a new ticket.
type CreateTicketInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Branch      string          `json:"branch"`
	Priority    domain.Priority `json:"priority"`
	Media       []string        `json:"media"`
}

// TicketService drives the ticket lifecycle: creation, workflow
// transitions, listing under the visibility policy, and deletion.
type TicketService struct {
	tickets  TicketStore
	branches BranchDirectory
	notifier *Notifier
	now      func() time.Time
	ticketID func() string
}

// NewTicketService creates a new TicketService.
func NewTicketService(tickets TicketStore, branches BranchDirectory, notifier *Notifier) *TicketService {
	return &TicketService{
		tickets:  tickets,
		branches: branches,
		notifier: notifier,
		now:      time.Now,
		ticketID: randomTicketID,
	}
}

// randomTicketID keeps the original id format: "T-" plus a random four
// digit suffix. Collisions are handled by retrying the insert.
func randomTicketID() string {
	return fmt.Sprintf("T-%d", rand.IntN(9000)+1000)
}

// Create validates the input, assigns an id and the initial status, and
// persists the ticket. A notification naming the new id is emitted on
// success.
func (s *TicketService) Create(ctx context.Context, actor domain.User, input CreateTicketInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, &domain.ValidationError{Field: "title", Message: "required"}
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, &domain.ValidationError{Field: "description", Message: "required"}
	}
	if len(input.Media) > maxMediaAttachments {
		return nil, &domain.ValidationError{Field: "media", Message: fmt.Sprintf("at most %d attachments", maxMediaAttachments)}
	}

	branch := input.Branch
	if branch == "" {
		branch = actor.Branch
	}
	if branch == "" {
		return nil, &domain.ValidationError{Field: "branch", Message: "required"}
	}
	if _, err := s.branches.FindByName(ctx, branch); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ValidationError{Field: "branch", Message: "unknown branch"}
		}
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, &domain.ValidationError{Field: "priority", Message: "unknown priority"}
	}

	now := s.now()
	ticket := domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Branch:      branch,
		Status:      domain.StatusPendingOMReview,
		Priority:    priority,
		CreatedBy:   actor.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
		Comments:    domain.Comments{},
		Media:       domain.Media(input.Media),
	}

	var err error
	for range maxIDAttempts {
		ticket.ID = s.ticketID()
		err = s.tickets.Create(ctx, ticket)
		if !errors.Is(err, domain.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Ticket %s initiated.", ticket.ID), domain.NotificationInfo, ticket.ID)
	return &ticket, nil
}

// Transition moves a ticket to the target status on behalf of the actor,
// appending the optional note as an audit comment. The status change and
// comment append persist together as one write; the follow-up notification
// is best-effort.
func (s *TicketService) Transition(ctx context.Context, actor domain.User, ticketID string, target domain.TicketStatus, note string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := workflow.Transition(ticket, actor, target, note, s.now()); err != nil {
		return nil, err
	}
	if err := s.tickets.UpdateWorkflow(ctx, *ticket); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Ticket %s updated.", ticket.ID), domain.NotificationInfo, ticket.ID)
	return ticket, nil
}

// List returns the tickets the user may see, newest first.
func (s *TicketService) List(ctx context.Context, user domain.User) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}
	return workflow.VisibleTickets(tickets, user), nil
}

// Get returns one ticket, honoring the visibility policy.
func (s *TicketService) Get(ctx context.Context, user domain.User, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !workflow.Visible(*ticket, user) {
		return nil, domain.ErrNotFound
	}
	return ticket, nil
}

// Delete removes the given tickets and emits a summary notification.
func (s *TicketService) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.tickets.Delete(ctx, ids)
	if err != nil {
		return err
	}
	s.notifier.Notify(ctx, fmt.Sprintf("Successfully deleted %d ticket(s).", n), domain.NotificationWarning, "")
	return nil
}
