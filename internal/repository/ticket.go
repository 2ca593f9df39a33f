package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/dawarsaada/siyana/internal/domain"
)

const ticketColumns = `id, title, description, branch, status, priority, created_by, created_at, updated_at, comments, media`

// TicketRepository handles ticket data access operations.
type TicketRepository struct {
	db *sqlx.DB
}

// NewTicketRepository creates a new TicketRepository.
func NewTicketRepository(db *sqlx.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// List retrieves all tickets ordered by creation time descending.
func (r *TicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	err := r.db.SelectContext(ctx, &tickets,
		`SELECT `+ticketColumns+` FROM tickets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// FindByID retrieves a ticket by its id.
func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	err := r.db.GetContext(ctx, &ticket,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find ticket %s: %w", id, err)
	}
	return &ticket, nil
}

// Create inserts a new ticket. Returns domain.ErrConflict when the id is
// already taken, so callers can retry with a fresh id.
func (r *TicketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO tickets (id, title, description, branch, status, priority, created_by, created_at, updated_at, comments, media)
		 VALUES (:id, :title, :description, :branch, :status, :priority, :created_by, :created_at, :updated_at, :comments, :media)`,
		ticket)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrConflict
		}
		return fmt.Errorf("create ticket %s: %w", ticket.ID, err)
	}
	return nil
}

// UpdateWorkflow persists a transition result: status, comment log, and
// updated_at together as one write.
func (r *TicketRepository) UpdateWorkflow(ctx context.Context, ticket domain.Ticket) error {
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE tickets SET status = :status, comments = :comments, updated_at = :updated_at WHERE id = :id`,
		ticket)
	if err != nil {
		return fmt.Errorf("update ticket %s: %w", ticket.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the tickets with the given ids and returns how many rows
// were removed.
func (r *TicketRepository) Delete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM tickets WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("build ticket delete: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete tickets: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete tickets rows affected: %w", err)
	}
	return n, nil
}
