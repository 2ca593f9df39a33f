package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawarsaada/siyana/internal/domain"
)

func newTestAuthService(store *fakeNotificationStore, accounts ...domain.Account) *AuthService {
	notifier := NewNotifier(store, nil)
	return NewAuthService(newFakeAccountStore(accounts...), notifier, "test-session-secret")
}

func TestLoginSessionDurations(t *testing.T) {
	account := domain.Account{ID: "admin", Name: "System Admin", Role: domain.RoleOperationManager, Password: "admin"}

	tests := []struct {
		name         string
		staySignedIn bool
		wantMillis   int64
	}{
		{"short session", false, 3_600_000},
		{"extended session", true, 2_592_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(&fakeNotificationStore{}, account)
			now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			svc.now = func() time.Time { return now }

			result, err := svc.Login(context.Background(), "admin", "admin", tt.staySignedIn)
			require.NoError(t, err)

			gotMillis := result.Session.ExpiresAt.UnixMilli() - now.UnixMilli()
			assert.Equal(t, tt.wantMillis, gotMillis)
			assert.Equal(t, "admin", result.Session.User.ID)
			assert.Empty(t, result.Session.User.Branch)
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	account := domain.Account{ID: "admin", Name: "System Admin", Role: domain.RoleOperationManager, Password: "admin"}

	tests := []struct {
		name     string
		id       string
		password string
	}{
		{"unknown id", "nobody", "admin"},
		{"wrong password", "admin", "wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeNotificationStore{}
			svc := newTestAuthService(store, account)

			result, err := svc.Login(context.Background(), tt.id, tt.password, false)
			// Both failure modes collapse to the same generic error.
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.Nil(t, result)
			assert.Empty(t, store.created)
		})
	}
}

func TestLoginEmitsWelcomeNotification(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := newTestAuthService(store, domain.Account{
		ID: "bm1", Name: "Laila", Role: domain.RoleBranchManager, Password: "pass", Branch: "Downtown",
	})

	_, err := svc.Login(context.Background(), "bm1", "pass", false)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Equal(t, "Welcome Laila.", store.created[0].Message)
	assert.Equal(t, domain.NotificationSuccess, store.created[0].Type)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(&fakeNotificationStore{}, domain.Account{
		ID: "bm1", Name: "Laila", Role: domain.RoleBranchManager, Password: "pass", Branch: "Downtown",
	})

	result, err := svc.Login(context.Background(), "bm1", "pass", false)
	require.NoError(t, err)

	session, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Session.User, session.User)
	assert.WithinDuration(t, result.Session.ExpiresAt, session.ExpiresAt, time.Second)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := newTestAuthService(&fakeNotificationStore{}, domain.Account{
		ID: "admin", Name: "System Admin", Role: domain.RoleOperationManager, Password: "admin",
	})

	past := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return past }
	result, err := svc.Login(context.Background(), "admin", "admin", false)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateToken(result.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(&fakeNotificationStore{})
	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
