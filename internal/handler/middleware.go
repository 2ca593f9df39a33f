package handler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dawarsaada/siyana/internal/domain"
	"github.com/dawarsaada/siyana/internal/service"
)

const contextKeySession = "session"

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return err
		}
	}
}

// SessionAuth validates the Bearer session token and injects the session
// into echo context. Expired sessions are rejected here, which is the
// server-side counterpart of the client's periodic expiry check.
func SessionAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return domain.ErrUnauthorized
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				return domain.ErrUnauthorized
			}

			session, err := auth.ValidateToken(parts[1])
			if err != nil {
				return domain.ErrUnauthorized
			}

			c.Set(contextKeySession, session)
			return next(c)
		}
	}
}

// RequireRole rejects requests whose session is not one of the given roles.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return domain.ErrUnauthorized
			}
			for _, r := range roles {
				if user.Role == r {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}

// CurrentUser extracts the authenticated user from echo context.
func CurrentUser(c echo.Context) (domain.User, bool) {
	session, ok := c.Get(contextKeySession).(*domain.Session)
	if !ok {
		return domain.User{}, false
	}
	return session.User, true
}

// CurrentSession extracts the full session from echo context.
func CurrentSession(c echo.Context) (*domain.Session, bool) {
	session, ok := c.Get(contextKeySession).(*domain.Session)
	return session, ok
}
