package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/database"
)

type AttemptStore struct {
	db database.Service
}

func NewAttemptStore(db database.Service) AttemptRepository {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) Get(ctx context.Context, kind domain.AttemptKind, key string) (*domain.LoginAttempt, error) {
	query := sq.Select("kind", "attempt_key", "failed_count", "last_failure_at").
		From("login_attempts").
		Where(sq.Eq{"kind": kind, "attempt_key": key}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	attempt := &domain.LoginAttempt{}
	err = s.db.Pool().QueryRow(ctx, sqlStr, args...).Scan(
		&attempt.Kind,
		&attempt.Key,
		&attempt.FailedCount,
		&attempt.LastFailureAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return attempt, nil
}

func (s *AttemptStore) RecordFailure(ctx context.Context, kind domain.AttemptKind, key string, at time.Time) error {
	// The rolling window lives in the upsert itself: a failure that lands
	// after the previous one aged out restarts the count at 1 instead of
	// piling onto stale history.
	query := sq.Insert("login_attempts").
		Columns("kind", "attempt_key", "failed_count", "last_failure_at").
		Values(kind, key, 1, at).
		Suffix(`ON CONFLICT (kind, attempt_key) DO UPDATE SET
			failed_count = CASE
				WHEN login_attempts.last_failure_at <= EXCLUDED.last_failure_at - make_interval(secs => ?)
				THEN 1
				ELSE login_attempts.failed_count + 1
			END,
			last_failure_at = EXCLUDED.last_failure_at`, domain.AttemptWindow.Seconds()).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.Pool().Exec(ctx, sqlStr, args...)
	return err
}

func (s *AttemptStore) Reset(ctx context.Context, kind domain.AttemptKind, key string) error {
	query := sq.Delete("login_attempts").
		Where(sq.Eq{"kind": kind, "attempt_key": key}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = s.db.Pool().Exec(ctx, sqlStr, args...)
	return err
}
