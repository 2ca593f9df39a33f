package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dawarsaada/siyana/internal/domain"
)

const accountColumns = `id, name, role, password, branch, created_at, updated_at`

// AccountRepository handles account data access operations.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// List retrieves all accounts ordered by id.
func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.SelectContext(ctx, &accounts,
		`SELECT `+accountColumns+` FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// FindByID retrieves an account by its id.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	var account domain.Account
	err := r.db.GetContext(ctx, &account,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find account %s: %w", id, err)
	}
	return &account, nil
}

// Upsert creates the account or updates it in place keyed by id. The id is
// the immutable primary key, so there is at most one account per id at any
// time.
func (r *AccountRepository) Upsert(ctx context.Context, account domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, role, password, branch)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id)
		 DO UPDATE SET name = EXCLUDED.name,
		               role = EXCLUDED.role,
		               password = EXCLUDED.password,
		               branch = EXCLUDED.branch,
		               updated_at = NOW()`,
		account.ID, account.Name, account.Role, account.Password, account.Branch)
	if err != nil {
		return fmt.Errorf("upsert account %s: %w", account.ID, err)
	}
	return nil
}

// Delete removes an account by id.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of accounts.
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM accounts`); err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return n, nil
}

// SeedDefaults inserts the two bootstrap accounts. ON CONFLICT DO NOTHING
// keeps concurrent seeders convergent.
func (r *AccountRepository) SeedDefaults(ctx context.Context, accounts []domain.Account) error {
	for _, a := range accounts {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO accounts (id, name, role, password, branch)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO NOTHING`,
			a.ID, a.Name, a.Role, a.Password, a.Branch)
		if err != nil {
			return fmt.Errorf("seed account %s: %w", a.ID, err)
		}
	}
	return nil
}
