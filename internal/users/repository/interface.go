package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
)

//go:generate mockgen -destination=../test/mock_user_admin_repository.go -package=test github.com/kariemGerges/crashify-sub002/internal/users/repository UserAdminRepository

type UserAdminRepository interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role domain.Role) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}
