package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/auth/usecase"
	"github.com/kariemGerges/crashify-sub002/internal/middleware"
	"github.com/kariemGerges/crashify-sub002/pkg/iputil"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
)

type AuthHandler struct {
	usecase usecase.AuthUsecase
}

func NewAuthHandler(u usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		usecase: u,
	}
}

// Bind attaches the public endpoints; BindProtected attaches the endpoints
// that sit behind the session gate. The entry middleware applies only to
// register and login, the two routes an authenticated caller has no business
// hitting.
func (h *AuthHandler) Bind(e *echo.Group, entry ...echo.MiddlewareFunc) {
	e.POST("/register", h.RegisterHandler, entry...)
	e.POST("/login", h.LoginHandler, entry...)
	e.POST("/2fa/verify", h.TwoFactorVerifyHandler)
	e.POST("/logout", h.LogoutHandler)
}

func (h *AuthHandler) BindProtected(e *echo.Group) {
	e.GET("/me", h.MeHandler)
	e.POST("/2fa/setup", h.TwoFactorSetupHandler)
	e.POST("/2fa/enable", h.TwoFactorEnableHandler)
}

func (h *AuthHandler) RegisterHandler(c echo.Context) error {
	var req usecase.RegisterInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid registration details"})
	}

	output, err := h.usecase.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrWeakPassword),
			errors.Is(err, domain.ErrInvalidUserEmailFormat),
			errors.Is(err, domain.ErrInvalidUserName),
			errors.Is(err, domain.ErrInvalidUserNameLength):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			logger.Error("unexpected error in RegisterHandler:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return c.JSON(http.StatusCreated, output)
}

func (h *AuthHandler) LoginHandler(c echo.Context) error {
	var req usecase.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx := c.Request().Context()
	userAgent := c.Request().UserAgent()
	ipAddress := iputil.ClientIP(c.Request())

	output, err := h.usecase.Login(ctx, req, userAgent, ipAddress)
	if err != nil {
		return writeLoginError(c, err)
	}

	if output.RequiresTwoFactor {
		// The temp token travels in the body, never as a cookie; it must
		// be echoed back to /2fa/verify.
		return c.JSON(http.StatusOK, map[string]any{
			"requiresTwoFactor": true,
			"tempToken":         output.TempToken,
		})
	}

	setSessionCookie(c, output.Session.Token)
	return c.JSON(http.StatusOK, map[string]any{"user": output.User})
}

func (h *AuthHandler) TwoFactorVerifyHandler(c echo.Context) error {
	var req usecase.TwoFactorVerifyInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Code must be 6 digits"})
	}

	ctx := c.Request().Context()
	userAgent := c.Request().UserAgent()
	ipAddress := iputil.ClientIP(c.Request())

	output, err := h.usecase.VerifyTwoFactor(ctx, req, userAgent, ipAddress)
	if err != nil {
		return writeLoginError(c, err)
	}

	setSessionCookie(c, output.Session.Token)
	return c.JSON(http.StatusOK, map[string]any{"user": output.User})
}

func (h *AuthHandler) LogoutHandler(c echo.Context) error {
	token := ""
	if cookie, err := c.Cookie(domain.SessionCookieName); err == nil {
		token = cookie.Value
	}

	result, err := h.usecase.Logout(c.Request().Context(), token)
	if err != nil {
		logger.Error("error during logout:", err)
		clearSessionCookie(c)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	clearSessionCookie(c)
	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) MeHandler(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No active session"})
	}

	return c.JSON(http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) TwoFactorSetupHandler(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No active session"})
	}

	output, err := h.usecase.SetupTwoFactor(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTwoFactorAlreadyOn):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			logger.Error("unexpected error in TwoFactorSetupHandler:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return c.JSON(http.StatusOK, output)
}

func (h *AuthHandler) TwoFactorEnableHandler(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "No active session"})
	}

	var req usecase.TwoFactorEnableInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Code must be 6 digits"})
	}

	output, err := h.usecase.EnableTwoFactor(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTwoFactorCode):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrTwoFactorAlreadyOn):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrTwoFactorNotConfigured):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Run two-factor setup first"})
		default:
			logger.Error("unexpected error in TwoFactorEnableHandler:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
	}

	return c.JSON(http.StatusOK, output)
}

// writeLoginError maps orchestrator failures onto the wire contract. The
// locked and blocked conditions get their own statuses; everything
// credential-shaped collapses into one generic 401.
func writeLoginError(c echo.Context, err error) error {
	var lockedErr *domain.LockedError
	switch {
	case errors.As(err, &lockedErr):
		return c.JSON(http.StatusLocked, map[string]any{
			"error":            "Account temporarily locked due to too many failed attempts",
			"minutesRemaining": lockedErr.MinutesRemaining(),
		})
	case errors.Is(err, domain.ErrIPBlocked):
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many login attempts, please try again later"})
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrTempTokenInvalid),
		errors.Is(err, domain.ErrInvalidTwoFactorCode):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidUserEmail),
		errors.Is(err, domain.ErrInvalidUserEmailFormat),
		errors.Is(err, domain.ErrInvalidUserPassword),
		errors.Is(err, domain.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		// Includes ErrTwoFactorNotConfigured: internal inconsistency is
		// logged loudly server-side and kept generic on the wire.
		logger.Error("unexpected login error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

func setSessionCookie(c echo.Context, token string) {
	c.SetCookie(middleware.SessionCookie(token))
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(middleware.ExpiredSessionCookie())
}

func currentUserID(c echo.Context) (uuid.UUID, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return uuid.Nil, domain.ErrSessionNotFound
	}
	return uuid.Parse(user.ID)
}
