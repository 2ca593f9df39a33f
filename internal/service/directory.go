package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dawarsaada/siyana/internal/domain"
)

// DirectoryAccountStore defines the account persistence consumed by
// DirectoryService.
type DirectoryAccountStore interface {
	List(ctx context.Context) ([]domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Upsert(ctx context.Context, account domain.Account) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	SeedDefaults(ctx context.Context, accounts []domain.Account) error
}

// DirectoryBranchStore defines the branch persistence consumed by
// DirectoryService.
type DirectoryBranchStore interface {
	List(ctx context.Context) ([]domain.Branch, error)
	FindByName(ctx context.Context, nameEN string) (*domain.Branch, error)
	Upsert(ctx context.Context, branch domain.Branch) error
	Delete(ctx context.Context, nameEN string) error
}

// DirectoryService maintains the account and branch directories and their
// consistency rules: immutable account ids, the self-deletion guard, and
// bootstrap seeding.
type DirectoryService struct {
	accounts DirectoryAccountStore
	branches DirectoryBranchStore
	notifier *Notifier
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(accounts DirectoryAccountStore, branches DirectoryBranchStore, notifier *Notifier) *DirectoryService {
	return &DirectoryService{accounts: accounts, branches: branches, notifier: notifier}
}

// Seed inserts the two bootstrap accounts when the account directory is
// observed empty: an operations-manager admin and a CEO.
func (s *DirectoryService) Seed(ctx context.Context) error {
	n, err := s.accounts.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.accounts.SeedDefaults(ctx, []domain.Account{
		{ID: "admin", Name: "System Admin", Role: domain.RoleOperationManager, Password: "admin"},
		{ID: "ceo", Name: "CEO", Role: domain.RoleCEO, Password: "ceo"},
	})
}

// ListAccounts returns all accounts with passwords redacted.
func (s *DirectoryService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		accounts[i].Password = ""
	}
	return accounts, nil
}

// SaveAccount creates or updates an account keyed by its immutable id. A
// branch-manager account must reference an existing branch.
func (s *DirectoryService) SaveAccount(ctx context.Context, account domain.Account) error {
	if strings.TrimSpace(account.ID) == "" {
		return &domain.ValidationError{Field: "id", Message: "required"}
	}
	if strings.TrimSpace(account.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "required"}
	}
	if strings.TrimSpace(account.Password) == "" {
		return &domain.ValidationError{Field: "password", Message: "required"}
	}
	if !account.Role.Valid() {
		return &domain.ValidationError{Field: "role", Message: "unknown role"}
	}
	if account.Role == domain.RoleBranchManager {
		if account.Branch == "" {
			return &domain.ValidationError{Field: "branch", Message: "required for branch managers"}
		}
		if _, err := s.branches.FindByName(ctx, account.Branch); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return &domain.ValidationError{Field: "branch", Message: "unknown branch"}
			}
			return err
		}
	}
	return s.accounts.Upsert(ctx, account)
}

// DeleteAccount removes an account. Deleting the acting user's own account
// is forbidden.
func (s *DirectoryService) DeleteAccount(ctx context.Context, actor domain.User, id string) error {
	if id == actor.ID {
		return domain.ErrForbiddenSelfDelete
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Notify(ctx, fmt.Sprintf("User account deleted: %s", id), domain.NotificationWarning, "")
	return nil
}

// ListBranches returns all branches ordered by English name.
func (s *DirectoryService) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	return s.branches.List(ctx)
}

// SaveBranch creates or updates a branch keyed by its English name.
func (s *DirectoryService) SaveBranch(ctx context.Context, branch domain.Branch) error {
	if strings.TrimSpace(branch.NameEN) == "" {
		return &domain.ValidationError{Field: "name_en", Message: "required"}
	}
	return s.branches.Upsert(ctx, branch)
}

// DeleteBranch removes a branch unconditionally. Tickets and accounts that
// still reference it keep their dangling reference; that gap is accepted,
// not repaired.
func (s *DirectoryService) DeleteBranch(ctx context.Context, nameEN string) error {
	if err := s.branches.Delete(ctx, nameEN); err != nil {
		return err
	}
	s.notifier.Notify(ctx, fmt.Sprintf("Branch deleted: %s", nameEN), domain.NotificationWarning, "")
	return nil
}
