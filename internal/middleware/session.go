package middleware

import (
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/auth/usecase"
)

const (
	userContextKey  = "current_user"
	tokenContextKey = "session_token"
)

// SessionGate resolves the bearer cookie to a user and enforces the
// per-route access rules.
type SessionGate struct {
	auth usecase.AuthUsecase
}

func NewSessionGate(auth usecase.AuthUsecase) *SessionGate {
	return &SessionGate{auth: auth}
}

// CurrentUser returns the user resolved by RequireSession for this request.
func CurrentUser(c echo.Context) (usecase.UserInfo, bool) {
	user, ok := c.Get(userContextKey).(usecase.UserInfo)
	return user, ok
}

// RequireSession authenticates the request from its session cookie. The token
// is resolved against the store on every request, so a revoked or expired
// session stops working on its very next use. A cookie that no longer
// resolves to a live session is cleared on the way out, not just rejected.
//
// The read-only write block lives here, ahead of any role gate, so a
// read_only caller gets the same refusal on every authenticated path.
func (g *SessionGate) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(domain.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session token"})
			}

			token := cookie.Value

			user, err := g.auth.CurrentUser(c.Request().Context(), token)
			if err != nil {
				c.SetCookie(ExpiredSessionCookie())
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired session"})
			}

			if domain.Role(user.Role) == domain.RoleReadOnly && isMutating(c.Request().Method) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "read-only account cannot modify data"})
			}

			c.Set(userContextKey, user)
			c.Set(tokenContextKey, token)

			return next(c)
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// RequireRoles allows only the listed roles through. Super admin passes
// every role gate.
func (g *SessionGate) RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]bool, len(roles)+1)
	allowed[domain.RoleSuperAdmin] = true
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session token"})
			}

			if !allowed[domain.Role(user.Role)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient permissions"})
			}

			return next(c)
		}
	}
}

// RedirectIfAuthenticated bounces already-authenticated callers away from
// the login and register endpoints.
func (g *SessionGate) RedirectIfAuthenticated(target string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(domain.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			if _, err := g.auth.CurrentUser(c.Request().Context(), cookie.Value); err == nil {
				return c.Redirect(http.StatusSeeOther, target)
			}

			// Dead cookie; let the request through and clean up.
			c.SetCookie(ExpiredSessionCookie())
			return next(c)
		}
	}
}

// SessionCookie builds the bearer-credential cookie for a freshly issued
// session token.
func SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(domain.ActiveSessionTTL),
		HttpOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie clears the bearer credential on the client.
func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     domain.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}
