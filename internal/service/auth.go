package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dawarsaada/siyana/internal/domain"
)

// AccountStore defines the account lookup consumed by AuthService.
type AccountStore interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}

// AuthService handles login and session validation. Credentials are matched
// in plaintext against the account list; this is an internal low-stakes
// tool and authentication is deliberately not a security boundary here.
type AuthService struct {
	accounts AccountStore
	notifier *Notifier
	secret   []byte
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(accounts AccountStore, notifier *Notifier, secret string) *AuthService {
	return &AuthService{
		accounts: accounts,
		notifier: notifier,
		secret:   []byte(secret),
		now:      time.Now,
	}
}

// LoginResult carries the issued session and its bearer token.
type LoginResult struct {
	Session domain.Session `json:"session"`
	Token   string         `json:"token"`
}

// Login matches the id and password against the account list and issues a
// session expiring in one hour, or thirty days when staySignedIn is set.
// Unknown id and wrong password both map to the same generic failure.
func (s *AuthService) Login(ctx context.Context, id, password string, staySignedIn bool) (*LoginResult, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if account.Password != password {
		return nil, domain.ErrInvalidCredentials
	}

	ttl := domain.SessionShortTTL
	if staySignedIn {
		ttl = domain.SessionExtendedTTL
	}

	now := s.now()
	session := domain.Session{
		User:      account.User(),
		ExpiresAt: now.Add(ttl),
	}

	token, err := s.signSession(session, now)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, fmt.Sprintf("Welcome %s.", session.User.Name), domain.NotificationSuccess, "")
	return &LoginResult{Session: session, Token: token}, nil
}

// Logout records an informational notification. The client discards its
// session record; nothing is revoked server-side.
func (s *AuthService) Logout(ctx context.Context) {
	s.notifier.Notify(ctx, "Logged out.", domain.NotificationInfo, "")
}

// ValidateToken checks the signature and expiry of a session token and
// reconstructs the session.
func (s *AuthService) ValidateToken(tokenString string) (*domain.Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	branch, _ := claims["branch"].(string)
	exp, _ := claims["exp"].(float64)

	session := domain.Session{
		User: domain.User{
			ID:     sub,
			Name:   name,
			Role:   domain.Role(role),
			Branch: branch,
		},
		ExpiresAt: time.Unix(int64(exp), 0),
	}
	if !session.User.Role.Valid() {
		return nil, domain.ErrUnauthorized
	}
	if session.Expired(s.now()) {
		return nil, domain.ErrUnauthorized
	}
	return &session, nil
}

func (s *AuthService) signSession(session domain.Session, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":    session.User.ID,
		"name":   session.User.Name,
		"role":   string(session.User.Role),
		"branch": session.User.Branch,
		"iat":    now.Unix(),
		"exp":    session.ExpiresAt.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
