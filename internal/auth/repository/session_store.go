package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/database"
)

type SessionStore struct {
	db database.Service
}

func NewSessionStore(db database.Service) SessionRepository {
	return &SessionStore{
		db: db,
	}
}

func (s *SessionStore) CreateSession(ctx context.Context, session *domain.Session) error {
	query := `INSERT INTO sessions (user_id, session_token, kind, ip_address, user_agent, two_factor_attempts, expires_at, created_at)
			  VALUES ($1, $2, $3::session_kind, $4, $5, $6, $7, $8)
			  RETURNING id`

	return s.db.Pool().QueryRow(ctx, query,
		session.UserID,
		session.SessionToken,
		session.Kind,
		session.IpAddress,
		session.UserAgent,
		session.TwoFactorAttempts,
		session.ExpiresAt,
		session.CreatedAt,
	).Scan(&session.ID)
}

func (s *SessionStore) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	query := `SELECT id, user_id, session_token, kind, ip_address, user_agent, two_factor_attempts, expires_at, created_at
			  FROM sessions WHERE session_token = $1`

	session := &domain.Session{}
	err := s.db.Pool().QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.SessionToken,
		&session.Kind,
		&session.IpAddress,
		&session.UserAgent,
		&session.TwoFactorAttempts,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return session, nil
}

func (s *SessionStore) DeleteSessionByToken(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE session_token = $1`

	_, err := s.db.Pool().Exec(ctx, query, token)
	return err
}

func (s *SessionStore) DeleteAllSessionsByUserID(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM sessions WHERE user_id = $1`

	_, err := s.db.Pool().Exec(ctx, query, userID)
	return err
}

func (s *SessionStore) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < NOW()`

	commandTag, err := s.db.Pool().Exec(ctx, query)
	if err != nil {
		return 0, err
	}

	return commandTag.RowsAffected(), nil
}

func (s *SessionStore) IncrementTwoFactorAttempts(ctx context.Context, token string) (int, error) {
	query := `UPDATE sessions SET two_factor_attempts = two_factor_attempts + 1
			  WHERE session_token = $1
			  RETURNING two_factor_attempts`

	var attempts int
	err := s.db.Pool().QueryRow(ctx, query, token).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrSessionNotFound
		}
		return 0, err
	}

	return attempts, nil
}
