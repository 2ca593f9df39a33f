package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawarsaada/siyana/internal/domain"
)

var testBranches = newFakeBranchStore(
	domain.Branch{NameEN: "Downtown", NameAR: "وسط المدينة"},
	domain.Branch{NameEN: "Marina", NameAR: "المارينا"},
)

func newTestTicketService(tickets *fakeTicketStore, store *fakeNotificationStore) *TicketService {
	return NewTicketService(tickets, testBranches, NewNotifier(store, nil))
}

func bmUser() domain.User {
	return domain.User{ID: "bm1", Name: "Laila", Role: domain.RoleBranchManager, Branch: "Downtown"}
}

func omUser() domain.User {
	return domain.User{ID: "om1", Name: "Omar", Role: domain.RoleOperationManager}
}

func TestCreateTicketDefaults(t *testing.T) {
	tickets := newFakeTicketStore()
	store := &fakeNotificationStore{}
	svc := newTestTicketService(tickets, store)

	ticket, err := svc.Create(context.Background(), bmUser(), CreateTicketInput{
		Title:       "Broken freezer",
		Description: "Freezer in aisle 3 not cooling",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.ID, "T-"), "id %q should keep the T- format", ticket.ID)
	assert.Len(t, ticket.ID, 6)
	assert.Equal(t, domain.StatusPendingOMReview, ticket.Status)
	assert.Equal(t, domain.PriorityMedium, ticket.Priority)
	assert.Equal(t, "Downtown", ticket.Branch, "defaults to the creator's branch")
	assert.Equal(t, "Laila", ticket.CreatedBy)
	assert.Empty(t, ticket.Comments)
	assert.Equal(t, ticket.CreatedAt, ticket.UpdatedAt)

	require.Len(t, store.created, 1)
	assert.Equal(t, "Ticket "+ticket.ID+" initiated.", store.created[0].Message)
	require.NotNil(t, store.created[0].TicketID)
	assert.Equal(t, ticket.ID, *store.created[0].TicketID)
}

func TestCreateTicketValidation(t *testing.T) {
	tests := []struct {
		name  string
		actor domain.User
		input CreateTicketInput
	}{
		{"missing title", bmUser(), CreateTicketInput{Description: "d"}},
		{"missing description", bmUser(), CreateTicketInput{Title: "t"}},
		{"unknown branch", omUser(), CreateTicketInput{Title: "t", Description: "d", Branch: "Nowhere"}},
		{"no branch resolvable", omUser(), CreateTicketInput{Title: "t", Description: "d"}},
		{"bad priority", bmUser(), CreateTicketInput{Title: "t", Description: "d", Priority: "WHENEVER"}},
		{"too many attachments", bmUser(), CreateTicketInput{Title: "t", Description: "d", Media: make([]string, 6)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestTicketService(newFakeTicketStore(), &fakeNotificationStore{})
			_, err := svc.Create(context.Background(), tt.actor, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidationFailed)
		})
	}
}

func TestCreateTicketRetriesOnIDCollision(t *testing.T) {
	tickets := newFakeTicketStore(domain.Ticket{ID: "T-1000"})
	svc := newTestTicketService(tickets, &fakeNotificationStore{})

	ids := []string{"T-1000", "T-1000", "T-4242"}
	svc.ticketID = func() string {
		id := ids[0]
		if len(ids) > 1 {
			ids = ids[1:]
		}
		return id
	}

	ticket, err := svc.Create(context.Background(), bmUser(), CreateTicketInput{
		Title:       "Broken freezer",
		Description: "Not cooling",
	})
	require.NoError(t, err)
	assert.Equal(t, "T-4242", ticket.ID)
}

func TestTransitionPersistsAndNotifiesOnce(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tickets := newFakeTicketStore(domain.Ticket{
		ID:        "T-1000",
		Title:     "Broken freezer",
		Branch:    "Downtown",
		Status:    domain.StatusPendingOMReview,
		Priority:  domain.PriorityMedium,
		CreatedAt: created,
		UpdatedAt: created,
		Comments:  domain.Comments{},
	})
	store := &fakeNotificationStore{}
	svc := newTestTicketService(tickets, store)

	now := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ticket, err := svc.Transition(context.Background(), omUser(), "T-1000", domain.StatusPendingCEOApproval, "escalating")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingCEOApproval, ticket.Status)
	assert.Equal(t, now, ticket.UpdatedAt)
	require.Len(t, ticket.Comments, 1)

	// The store saw the status, comments, and updated_at together.
	persisted, err := tickets.FindByID(context.Background(), "T-1000")
	require.NoError(t, err)
	assert.Equal(t, *ticket, *persisted)

	require.Len(t, store.created, 1)
	assert.Equal(t, "Ticket T-1000 updated.", store.created[0].Message)
}

func TestTransitionUnauthorizedLeavesStoreUntouched(t *testing.T) {
	original := domain.Ticket{
		ID:       "T-1000",
		Status:   domain.StatusPendingOMReview,
		Comments: domain.Comments{},
	}
	tickets := newFakeTicketStore(original)
	store := &fakeNotificationStore{}
	svc := newTestTicketService(tickets, store)

	// A branch manager cannot act on a ticket pending OM review.
	_, err := svc.Transition(context.Background(), bmUser(), "T-1000", domain.StatusClosed, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorizedTransition)

	persisted, findErr := tickets.FindByID(context.Background(), "T-1000")
	require.NoError(t, findErr)
	assert.Equal(t, original, *persisted)
	assert.Empty(t, store.created)
}

func TestTransitionUnknownTicket(t *testing.T) {
	svc := newTestTicketService(newFakeTicketStore(), &fakeNotificationStore{})
	_, err := svc.Transition(context.Background(), omUser(), "T-9999", domain.StatusPendingCEOApproval, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransitionSurvivesNotificationFailure(t *testing.T) {
	tickets := newFakeTicketStore(domain.Ticket{
		ID:       "T-1000",
		Status:   domain.StatusPendingOMReview,
		Comments: domain.Comments{},
	})
	store := &fakeNotificationStore{failWith: context.DeadlineExceeded}
	svc := newTestTicketService(tickets, store)

	// Notification emission is best-effort; the transition holds even
	// when the notification write fails.
	ticket, err := svc.Transition(context.Background(), omUser(), "T-1000", domain.StatusPendingCEOApproval, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingCEOApproval, ticket.Status)

	persisted, err := tickets.FindByID(context.Background(), "T-1000")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendingCEOApproval, persisted.Status)
}

func TestListAppliesVisibility(t *testing.T) {
	tickets := newFakeTicketStore(
		domain.Ticket{ID: "T-1", Branch: "Downtown"},
		domain.Ticket{ID: "T-2", Branch: "Marina"},
		domain.Ticket{ID: "T-3", Branch: "Downtown"},
	)
	svc := newTestTicketService(tickets, &fakeNotificationStore{})

	visible, err := svc.List(context.Background(), bmUser())
	require.NoError(t, err)
	require.Len(t, visible, 2)
	for _, ticket := range visible {
		assert.Equal(t, "Downtown", ticket.Branch)
	}

	all, err := svc.List(context.Background(), omUser())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetHonorsVisibility(t *testing.T) {
	tickets := newFakeTicketStore(domain.Ticket{ID: "T-2", Branch: "Marina"})
	svc := newTestTicketService(tickets, &fakeNotificationStore{})

	_, err := svc.Get(context.Background(), bmUser(), "T-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ticket, err := svc.Get(context.Background(), omUser(), "T-2")
	require.NoError(t, err)
	assert.Equal(t, "T-2", ticket.ID)
}

func TestDeleteEmitsSummary(t *testing.T) {
	tickets := newFakeTicketStore(
		domain.Ticket{ID: "T-1"},
		domain.Ticket{ID: "T-2"},
	)
	store := &fakeNotificationStore{}
	svc := newTestTicketService(tickets, store)

	require.NoError(t, svc.Delete(context.Background(), []string{"T-1", "T-2", "T-404"}))

	require.Len(t, store.created, 1)
	assert.Equal(t, "Successfully deleted 2 ticket(s).", store.created[0].Message)
	assert.Equal(t, domain.NotificationWarning, store.created[0].Type)

	remaining, err := tickets.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
