package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/kariemGerges/crashify-sub002/internal/auth/repository"
	"github.com/kariemGerges/crashify-sub002/internal/database"
	"github.com/kariemGerges/crashify-sub002/pkg/crypto"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
	"github.com/kariemGerges/crashify-sub002/pkg/mailer"
)

type Server struct {
	port int

	db     database.Service
	mailer mailer.Mailer
}

const (
	fromEmail = "security@crashify.io"

	// sessionSweepInterval paces the cleanup of expired session rows. Expiry
	// itself is enforced on read; the sweep only reclaims storage.
	sessionSweepInterval = 15 * time.Minute
)

func NewServer(ctx context.Context) (*http.Server, error) {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	if err := crypto.SetEncryptionKey(os.Getenv("ENCRYPTION_KEY")); err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	db, err := database.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	s := &Server{
		port:   port,
		db:     db,
		mailer: newMailer(),
	}

	go s.sweepExpiredSessions(ctx, repository.NewSessionStore(db))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}

func newMailer() mailer.Mailer {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		logger.Warn("RESEND_API_KEY not set, lockout notifications disabled")
		return mailer.NewNoopMailer()
	}
	return mailer.NewResendMailer(apiKey, fromEmail)
}

func (s *Server) sweepExpiredSessions(ctx context.Context, sessions repository.SessionRepository) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := sessions.DeleteExpiredSessions(ctx)
			if err != nil {
				logger.Error("session sweep failed:", err)
				continue
			}
			if deleted > 0 {
				logger.Info("swept expired sessions", "count", deleted)
			}
		}
	}
}
