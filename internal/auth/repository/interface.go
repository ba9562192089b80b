package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
)

//go:generate mockgen -destination=../test/mock_repositories.go -package=test github.com/kariemGerges/crashify-sub002/internal/auth/repository UserRepository,SessionRepository,AttemptRepository

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UserExistsByEmail(ctx context.Context, email string) (bool, error)
	// GetActiveUserByEmail filters on the active flag in the query itself;
	// a deactivated account is indistinguishable from an absent one.
	GetActiveUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	SetTwoFactorSecret(ctx context.Context, userID uuid.UUID, encryptedSecret string) error
	EnableTwoFactor(ctx context.Context, userID uuid.UUID) error
	SetActive(ctx context.Context, userID uuid.UUID, active bool) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	// GetSessionByToken returns the row regardless of expiry; expiry is the
	// caller's decision so the stale row can be deleted as a side effect.
	GetSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	// DeleteSessionByToken is idempotent; deleting an absent token is not
	// an error.
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteAllSessionsByUserID(ctx context.Context, userID uuid.UUID) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	// IncrementTwoFactorAttempts returns the count after increment.
	IncrementTwoFactorAttempts(ctx context.Context, token string) (int, error)
}

type AttemptRepository interface {
	// Get returns nil (no error) when no record exists for the key.
	Get(ctx context.Context, kind domain.AttemptKind, key string) (*domain.LoginAttempt, error)
	// RecordFailure increments the counter, or restarts it at 1 when the
	// previous failure has aged out of the rolling window.
	RecordFailure(ctx context.Context, kind domain.AttemptKind, key string, at time.Time) error
	Reset(ctx context.Context, kind domain.AttemptKind, key string) error
}
