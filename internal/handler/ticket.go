package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawarsaada/siyana/internal/domain"
	"github.com/dawarsaada/siyana/internal/service"
	"github.com/dawarsaada/siyana/internal/workflow"
)

// TicketHandler handles ticket CRUD and workflow transitions.
type TicketHandler struct {
	tickets *service.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// ticketView decorates a ticket with the derived presentation fields: the
// 1-5 progress step and whether the requesting role has a pending action.
type ticketView struct {
	domain.Ticket
	Step           int                   `json:"step"`
	ActionNeeded   bool                  `json:"action_needed"`
	AllowedTargets []domain.TicketStatus `json:"allowed_targets,omitempty"`
}

func newTicketView(t domain.Ticket, user domain.User) ticketView {
	return ticketView{
		Ticket:         t,
		Step:           workflow.Step(t.Status),
		ActionNeeded:   workflow.ActionNeeded(t.Status, user.Role),
		AllowedTargets: workflow.AllowedTargets(t.Status, user.Role),
	}
}

// List returns the tickets visible to the requesting user, newest first.
func (h *TicketHandler) List(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	tickets, err := h.tickets.List(c.Request().Context(), user)
	if err != nil {
		return err
	}

	views := make([]ticketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, newTicketView(t, user))
	}
	return JSON(c, http.StatusOK, views)
}

// Get returns one ticket with its derived view fields.
func (h *TicketHandler) Get(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	ticket, err := h.tickets.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, newTicketView(*ticket, user))
}

// Create opens a new ticket at the start of the workflow.
func (h *TicketHandler) Create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var input service.CreateTicketInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	ticket, err := h.tickets.Create(c.Request().Context(), user, input)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, newTicketView(*ticket, user))
}

type transitionRequest struct {
	Status  domain.TicketStatus `json:"status" validate:"required"`
	Comment string              `json:"comment"`
}

// Transition applies a workflow action to the ticket.
func (h *TicketHandler) Transition(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.tickets.Transition(c.Request().Context(), user, c.Param("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, newTicketView(*ticket, user))
}

type deleteTicketsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// Delete removes a batch of tickets.
func (h *TicketHandler) Delete(c echo.Context) error {
	var req deleteTicketsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.tickets.Delete(c.Request().Context(), req.IDs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// dashboardStats is the role-scoped summary shown on the dashboard.
type dashboardStats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Resolved     int `json:"resolved"`
	ActionNeeded int `json:"action_needed"`
}

// Dashboard returns the ticket counts for the requesting user.
func (h *TicketHandler) Dashboard(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}

	tickets, err := h.tickets.List(c.Request().Context(), user)
	if err != nil {
		return err
	}

	var stats dashboardStats
	stats.Total = len(tickets)
	for _, t := range tickets {
		switch t.Status {
		case domain.StatusPendingOMReview, domain.StatusPendingCEOApproval:
			stats.Pending++
		case domain.StatusClosed:
			stats.Resolved++
		}
		if workflow.ActionNeeded(t.Status, user.Role) {
			stats.ActionNeeded++
		}
	}
	return JSON(c, http.StatusOK, stats)
}
