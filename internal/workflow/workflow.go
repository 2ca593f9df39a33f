// Package workflow implements the ticket lifecycle state machine: the
// role-gated transition table, the action-needed policy derived from it,
// branch-scoped visibility, and the linear progress view over statuses.
package workflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/dawarsaada/siyana/internal/domain"
)

// transitions maps (current status, actor role) to the set of statuses the
// actor may move the ticket to. Statuses absent from the table are terminal:
// no role can act on them.
var transitions = map[domain.TicketStatus]map[domain.Role][]domain.TicketStatus{
	domain.StatusPendingOMReview: {
		domain.RoleOperationManager: {
			domain.StatusPendingCEOApproval,
			domain.StatusOMRejected,
		},
	},
	domain.StatusPendingCEOApproval: {
		domain.RoleCEO: {
			domain.StatusApprovedPendingResolution,
			domain.StatusCEORejected,
		},
	},
	domain.StatusApprovedPendingResolution: {
		domain.RoleOperationManager: {
			domain.StatusResolvedPendingVerification,
		},
	},
	domain.StatusResolvedPendingVerification: {
		domain.RoleBranchManager: {
			domain.StatusClosed,
			domain.StatusPendingOMReview,
		},
	},
}

// AllowedTargets returns the statuses the given role may move a ticket in
// the given status to. The returned slice is a copy.
func AllowedTargets(status domain.TicketStatus, role domain.Role) []domain.TicketStatus {
	targets := transitions[status][role]
	if len(targets) == 0 {
		return nil
	}
	out := make([]domain.TicketStatus, len(targets))
	copy(out, targets)
	return out
}

// CanTransition reports whether the role may move a ticket from the current
// status to the target status.
func CanTransition(current domain.TicketStatus, role domain.Role, target domain.TicketStatus) bool {
	for _, t := range transitions[current][role] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition applies an authorized status change to the ticket in place.
// On success it sets the status, bumps UpdatedAt to now, and, when note is
// non-empty, appends exactly one audit comment authored by the actor. The
// ticket is left untouched when the transition is not permitted.
func Transition(ticket *domain.Ticket, actor domain.User, target domain.TicketStatus, note string, now time.Time) error {
	if !CanTransition(ticket.Status, actor.Role, target) {
		return domain.ErrUnauthorizedTransition
	}

	ticket.Status = target
	ticket.UpdatedAt = now
	if note != "" {
		ticket.Comments = append(ticket.Comments, domain.Comment{
			ID:        uuid.NewString(),
			Author:    actor.Name,
			Role:      actor.Role,
			Text:      note,
			Timestamp: now,
		})
	}
	return nil
}

// ActionNeeded reports whether the role currently has a pending decision on
// a ticket in the given status. This agrees exactly with the transition
// table: a role needs to act precisely in the statuses where it is the
// allowed actor.
func ActionNeeded(status domain.TicketStatus, role domain.Role) bool {
	switch role {
	case domain.RoleOperationManager:
		return status == domain.StatusPendingOMReview ||
			status == domain.StatusApprovedPendingResolution
	case domain.RoleCEO:
		return status == domain.StatusPendingCEOApproval
	case domain.RoleBranchManager:
		return status == domain.StatusResolvedPendingVerification ||
			status == domain.StatusOMRejected ||
			status == domain.StatusCEORejected
	}
	return false
}

// Visible reports whether the user may see the ticket. Branch managers are
// restricted to their own branch; operation managers and the CEO see all
// tickets.
func Visible(ticket domain.Ticket, user domain.User) bool {
	if user.Role == domain.RoleBranchManager {
		return ticket.Branch == user.Branch
	}
	return true
}

// VisibleTickets filters the ticket list down to what the user may see,
// preserving order.
func VisibleTickets(tickets []domain.Ticket, user domain.User) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if Visible(t, user) {
			out = append(out, t)
		}
	}
	return out
}

// Step collapses the nine statuses to the 1-5 ordinal of the linear
// progress display. Rejected and re-issued variants fall back to step 1.
// This is a presentation derivation, not part of the state machine.
func Step(status domain.TicketStatus) int {
	switch status {
	case domain.StatusClosed:
		return 5
	case domain.StatusResolvedPendingVerification:
		return 4
	case domain.StatusApprovedPendingResolution, domain.StatusInProgress:
		return 3
	case domain.StatusPendingCEOApproval:
		return 2
	}
	return 1
}
