package service

import (
	"context"
	"sort"

	"github.com/dawarsaada/siyana/internal/domain"
)

// In-memory stores standing in for the sqlx repositories.

type fakeAccountStore struct {
	accounts map[string]domain.Account
}

func newFakeAccountStore(accounts ...domain.Account) *fakeAccountStore {
	s := &fakeAccountStore{accounts: make(map[string]domain.Account)}
	for _, a := range accounts {
		s.accounts[a.ID] = a
	}
	return s
}

func (s *fakeAccountStore) List(_ context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeAccountStore) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (s *fakeAccountStore) Upsert(_ context.Context, account domain.Account) error {
	s.accounts[account.ID] = account
	return nil
}

func (s *fakeAccountStore) Delete(_ context.Context, id string) error {
	if _, ok := s.accounts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *fakeAccountStore) Count(_ context.Context) (int, error) {
	return len(s.accounts), nil
}

func (s *fakeAccountStore) SeedDefaults(_ context.Context, accounts []domain.Account) error {
	for _, a := range accounts {
		if _, ok := s.accounts[a.ID]; !ok {
			s.accounts[a.ID] = a
		}
	}
	return nil
}

type fakeBranchStore struct {
	branches map[string]domain.Branch
}

func newFakeBranchStore(branches ...domain.Branch) *fakeBranchStore {
	s := &fakeBranchStore{branches: make(map[string]domain.Branch)}
	for _, b := range branches {
		s.branches[b.NameEN] = b
	}
	return s
}

func (s *fakeBranchStore) List(_ context.Context) ([]domain.Branch, error) {
	out := make([]domain.Branch, 0, len(s.branches))
	for _, b := range s.branches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameEN < out[j].NameEN })
	return out, nil
}

func (s *fakeBranchStore) FindByName(_ context.Context, nameEN string) (*domain.Branch, error) {
	b, ok := s.branches[nameEN]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *fakeBranchStore) Upsert(_ context.Context, branch domain.Branch) error {
	s.branches[branch.NameEN] = branch
	return nil
}

func (s *fakeBranchStore) Delete(_ context.Context, nameEN string) error {
	if _, ok := s.branches[nameEN]; !ok {
		return domain.ErrNotFound
	}
	delete(s.branches, nameEN)
	return nil
}

type fakeTicketStore struct {
	tickets map[string]domain.Ticket
	order   []string
}

func newFakeTicketStore(tickets ...domain.Ticket) *fakeTicketStore {
	s := &fakeTicketStore{tickets: make(map[string]domain.Ticket)}
	for _, t := range tickets {
		s.tickets[t.ID] = t
		s.order = append(s.order, t.ID)
	}
	return s
}

func (s *fakeTicketStore) List(_ context.Context) ([]domain.Ticket, error) {
	// Newest first, mirroring the repository's created_at ordering.
	out := make([]domain.Ticket, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.tickets[s.order[i]])
	}
	return out, nil
}

func (s *fakeTicketStore) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := s.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (s *fakeTicketStore) Create(_ context.Context, ticket domain.Ticket) error {
	if _, ok := s.tickets[ticket.ID]; ok {
		return domain.ErrConflict
	}
	s.tickets[ticket.ID] = ticket
	s.order = append(s.order, ticket.ID)
	return nil
}

func (s *fakeTicketStore) UpdateWorkflow(_ context.Context, ticket domain.Ticket) error {
	if _, ok := s.tickets[ticket.ID]; !ok {
		return domain.ErrNotFound
	}
	s.tickets[ticket.ID] = ticket
	return nil
}

func (s *fakeTicketStore) Delete(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := s.tickets[id]; ok {
			delete(s.tickets, id)
			n++
		}
	}
	remaining := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.tickets[id]; ok {
			remaining = append(remaining, id)
		}
	}
	s.order = remaining
	return n, nil
}

type fakeNotificationStore struct {
	created  []domain.Notification
	failWith error
}

func (s *fakeNotificationStore) Create(_ context.Context, n domain.Notification) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.created = append(s.created, n)
	return nil
}

func (s *fakeNotificationStore) List(_ context.Context) ([]domain.Notification, error) {
	out := make([]domain.Notification, 0, len(s.created))
	for i := len(s.created) - 1; i >= 0; i-- {
		out = append(out, s.created[i])
	}
	return out, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id string) error {
	for i := range s.created {
		if s.created[i].ID == id {
			s.created[i].Read = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context) error {
	for i := range s.created {
		s.created[i].Read = true
	}
	return nil
}
