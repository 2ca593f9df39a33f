package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawarsaada/siyana/internal/service"
)

// AuthHandler handles login, logout, and session introspection.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	ID           string `json:"id" validate:"required"`
	Password     string `json:"password" validate:"required"`
	StaySignedIn bool   `json:"stay_signed_in"`
}

// Login issues a session for a matching id/password pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.ID, req.Password, req.StaySignedIn)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, result)
}

// Logout records the logout; the client discards its session record.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.auth.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// Me returns the current session.
func (h *AuthHandler) Me(c echo.Context) error {
	session, ok := CurrentSession(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized)
	}
	return JSON(c, http.StatusOK, session)
}
