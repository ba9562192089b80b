package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/middleware"
	"github.com/kariemGerges/crashify-sub002/internal/users/usecase"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
)

type UserHandler struct {
	usecase usecase.UserAdminUsecase
}

func NewUserHandler(u usecase.UserAdminUsecase) *UserHandler {
	return &UserHandler{
		usecase: u,
	}
}

// BindAdmin attaches the account-management endpoints; callers are expected
// to gate the group by role before binding.
func (h *UserHandler) BindAdmin(e *echo.Group) {
	e.GET("", h.ListUsersHandler)
	e.PATCH("/:id/role", h.UpdateRoleHandler)
	e.POST("/:id/deactivate", h.DeactivateHandler)
	e.POST("/:id/reactivate", h.ReactivateHandler)
}

func (h *UserHandler) BindProtected(e *echo.Group) {
	e.POST("/password", h.ChangePasswordHandler)
}

func (h *UserHandler) ListUsersHandler(c echo.Context) error {
	var req usecase.ListUsersInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	users, err := h.usecase.ListUsers(c.Request().Context(), req)
	if err != nil {
		logger.Error("unexpected error in ListUsersHandler:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) UpdateRoleHandler(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
	}

	var req usecase.UpdateRoleInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Role is required"})
	}

	output, err := h.usecase.UpdateRole(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidUserRole):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			logger.Error("unexpected error in UpdateRoleHandler:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return c.JSON(http.StatusOK, output)
}

func (h *UserHandler) DeactivateHandler(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
	}

	// An admin locking themselves out is almost always a mistake.
	if current, ok := middleware.CurrentUser(c); ok && current.ID == userID.String() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Cannot deactivate your own account"})
	}

	output, err := h.usecase.DeactivateUser(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			logger.Error("unexpected error in DeactivateHandler:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return c.JSON(http.StatusOK, output)
}

func (h *UserHandler) ReactivateHandler(c echo.Context) error {
	userID, err := pathUserID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user id"})
	}

	output, err := h.usecase.ReactivateUser(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			logger.Error("unexpected error in ReactivateHandler:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return c.JSON(http.StatusOK, output)
}

func (h *UserHandler) ChangePasswordHandler(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No active session"})
	}
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No active session"})
	}

	var req usecase.ChangePasswordInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "New password does not meet strength requirements"})
	}

	output, err := h.usecase.ChangePassword(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Current password is incorrect"})
		case errors.Is(err, domain.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			logger.Error("unexpected error in ChangePasswordHandler:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return c.JSON(http.StatusOK, output)
}

func pathUserID(c echo.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}
