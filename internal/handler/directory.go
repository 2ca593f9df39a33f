package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dawarsaada/siyana/internal/domain"
	"github.com/dawarsaada/siyana/internal/service"
)

// DirectoryHandler handles account and branch administration.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// ListAccounts returns all accounts with passwords redacted.
func (h *DirectoryHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.directory.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, accounts)
}

type accountRequest struct {
	ID       string      `json:"id" validate:"required"`
	Name     string      `json:"name" validate:"required"`
	Role     domain.Role `json:"role" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Branch   string      `json:"branch"`
}

// SaveAccount creates or updates an account keyed by its immutable id.
func (h *DirectoryHandler) SaveAccount(c echo.Context) error {
	var req accountRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	account := domain.Account{
		ID:       req.ID,
		Name:     req.Name,
		Role:     req.Role,
		Password: req.Password,
		Branch:   req.Branch,
	}
	if err := h.directory.SaveAccount(c.Request().Context(), account); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAccount removes an account; deleting your own is rejected.
func (h *DirectoryHandler) DeleteAccount(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := h.directory.DeleteAccount(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBranches returns all branches ordered by English name.
func (h *DirectoryHandler) ListBranches(c echo.Context) error {
	branches, err := h.directory.ListBranches(c.Request().Context())
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, branches)
}

type branchRequest struct {
	NameEN string `json:"name_en" validate:"required"`
	NameAR string `json:"name_ar"`
}

// SaveBranch creates or updates a branch keyed by its English name.
func (h *DirectoryHandler) SaveBranch(c echo.Context) error {
	var req branchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	branch := domain.Branch{NameEN: req.NameEN, NameAR: req.NameAR}
	if err := h.directory.SaveBranch(c.Request().Context(), branch); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteBranch removes a branch without referential-integrity checks.
func (h *DirectoryHandler) DeleteBranch(c echo.Context) error {
	if err := h.directory.DeleteBranch(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
