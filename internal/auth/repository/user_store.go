package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/database"
)

type UserStore struct {
	db database.Service
}

func NewUserStore(db database.Service) UserRepository {
	return &UserStore{
		db: db,
	}
}

const userColumns = `id, email, password_hash, first_name, last_name, role,
			         is_active, two_factor_enabled, two_factor_secret, last_login_at,
			         created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.IsActive,
		&user.TwoFactorEnabled,
		&user.TwoFactorSecret,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserStore) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `INSERT INTO users (email, password_hash, first_name, last_name, role)
			  VALUES ($1, $2, $3, $4, $5::user_role)
			  RETURNING id, created_at, updated_at`

	err := s.db.Pool().QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserStore) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT 1 FROM users WHERE email = $1 LIMIT 1`

	var exists int
	err := s.db.Pool().QueryRow(ctx, query, email).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *UserStore) GetActiveUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE email = $1 AND is_active = true`

	return scanUser(s.db.Pool().QueryRow(ctx, query, email))
}

func (s *UserStore) GetUserByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE id = $1`

	return scanUser(s.db.Pool().QueryRow(ctx, query, userID))
}

func (s *UserStore) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`

	_, err := s.db.Pool().Exec(ctx, query, userID)
	return err
}

func (s *UserStore) SetTwoFactorSecret(ctx context.Context, userID uuid.UUID, encryptedSecret string) error {
	query := `UPDATE users SET two_factor_secret = $2, updated_at = NOW() WHERE id = $1`

	_, err := s.db.Pool().Exec(ctx, query, userID, encryptedSecret)
	return err
}

func (s *UserStore) EnableTwoFactor(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET two_factor_enabled = true, updated_at = NOW()
			  WHERE id = $1 AND two_factor_secret IS NOT NULL`

	commandTag, err := s.db.Pool().Exec(ctx, query, userID)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrTwoFactorNotConfigured
	}

	return nil
}

func (s *UserStore) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	query := `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`

	commandTag, err := s.db.Pool().Exec(ctx, query, userID, active)
	if err != nil {
		return err
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}
