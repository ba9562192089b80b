package server

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kariemGerges/crashify-sub002/internal/audit"
	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	authhandler "github.com/kariemGerges/crashify-sub002/internal/auth/handler"
	authrepo "github.com/kariemGerges/crashify-sub002/internal/auth/repository"
	authusecase "github.com/kariemGerges/crashify-sub002/internal/auth/usecase"
	sessionMiddleware "github.com/kariemGerges/crashify-sub002/internal/middleware"
	userhandler "github.com/kariemGerges/crashify-sub002/internal/users/handler"
	userrepo "github.com/kariemGerges/crashify-sub002/internal/users/repository"
	userusecase "github.com/kariemGerges/crashify-sub002/internal/users/usecase"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
	pkgvalidator "github.com/kariemGerges/crashify-sub002/pkg/validator"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()

	v := validator.New()
	pkgvalidator.RegisterPasswordValidation(v)
	e.Validator = &CustomValidator{validator: v}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency", values.Latency.String(),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XFrameOptions:         "DENY",
		ContentTypeNosniff:    "nosniff",
		XSSProtection:         "1; mode=block",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' data:; connect-src 'self' https:;",
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStore(100),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
		},
	}))
	e.Use(middleware.BodyLimit("2MB"))

	e.GET("/health", s.healthHandler)

	apiGroup := e.Group("/api")
	s.setupRoutes(apiGroup)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func (s *Server) setupRoutes(apiGroup *echo.Group) {
	userStore := authrepo.NewUserStore(s.db)
	sessionStore := authrepo.NewSessionStore(s.db)
	attemptStore := authrepo.NewAttemptStore(s.db)

	guard := authusecase.NewBruteForceGuard(attemptStore)
	auditor := audit.NewRecorder(s.db)
	authUsecase := authusecase.NewAuthService(userStore, sessionStore, guard, auditor, s.mailer)
	authHandler := authhandler.NewAuthHandler(authUsecase)

	gate := sessionMiddleware.NewSessionGate(authUsecase)

	authGroup := apiGroup.Group("/auth")
	authHandler.Bind(authGroup, gate.RedirectIfAuthenticated("/api/auth/me"))

	protectedAuth := apiGroup.Group("/auth", gate.RequireSession())
	authHandler.BindProtected(protectedAuth)

	adminStore := userrepo.NewUserAdminStore(s.db)
	userUsecase := userusecase.NewUserAdminService(adminStore, userStore, sessionStore)
	userHandler := userhandler.NewUserHandler(userUsecase)

	selfGroup := apiGroup.Group("/users", gate.RequireSession())
	userHandler.BindProtected(selfGroup)

	adminGroup := apiGroup.Group("/admin/users",
		gate.RequireSession(),
		gate.RequireRoles(domain.RoleAdmin, domain.RoleManager),
	)
	userHandler.BindAdmin(adminGroup)

	settingsGroup := apiGroup.Group("/admin/settings",
		gate.RequireSession(),
		gate.RequireRoles(domain.RoleAdmin),
	)
	settingsGroup.GET("", s.securitySettingsHandler)
}

// securitySettingsHandler exposes the effective security policy so admins can
// see what the deployment enforces without reading source.
func (s *Server) securitySettingsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"maxFailedAttempts":      domain.MaxFailedAttempts,
		"maxFailedAttemptsPerIp": domain.MaxFailedAttemptsPerIP,
		"lockoutMinutes":         int(domain.LockoutDuration.Minutes()),
		"sessionTtlHours":        int(domain.ActiveSessionTTL.Hours()),
		"pendingTokenTtlMinutes": int(domain.PendingSessionTTL.Minutes()),
		"maxTwoFactorAttempts":   domain.MaxTwoFactorAttempts,
	})
}
