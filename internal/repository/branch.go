package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dawarsaada/siyana/internal/domain"
)

// BranchRepository handles branch data access operations.
type BranchRepository struct {
	db *sqlx.DB
}

// NewBranchRepository creates a new BranchRepository.
func NewBranchRepository(db *sqlx.DB) *BranchRepository {
	return &BranchRepository{db: db}
}

// List retrieves all branches ordered by their English name.
func (r *BranchRepository) List(ctx context.Context) ([]domain.Branch, error) {
	var branches []domain.Branch
	err := r.db.SelectContext(ctx, &branches,
		`SELECT name_en, name_ar FROM branches ORDER BY name_en`)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return branches, nil
}

// FindByName retrieves a branch by its English name.
func (r *BranchRepository) FindByName(ctx context.Context, nameEN string) (*domain.Branch, error) {
	var branch domain.Branch
	err := r.db.GetContext(ctx, &branch,
		`SELECT name_en, name_ar FROM branches WHERE name_en = $1`, nameEN)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find branch %s: %w", nameEN, err)
	}
	return &branch, nil
}

// Upsert creates the branch or updates its display label keyed by name_en.
func (r *BranchRepository) Upsert(ctx context.Context, branch domain.Branch) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO branches (name_en, name_ar)
		 VALUES ($1, $2)
		 ON CONFLICT (name_en)
		 DO UPDATE SET name_ar = EXCLUDED.name_ar`,
		branch.NameEN, branch.NameAR)
	if err != nil {
		return fmt.Errorf("upsert branch %s: %w", branch.NameEN, err)
	}
	return nil
}

// Delete removes a branch unconditionally. References from tickets and
// accounts are left dangling on purpose.
func (r *BranchRepository) Delete(ctx context.Context, nameEN string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE name_en = $1`, nameEN)
	if err != nil {
		return fmt.Errorf("delete branch %s: %w", nameEN, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
