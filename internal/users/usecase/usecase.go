package usecase

import (
	"context"

	"github.com/google/uuid"
)

type UserAdminUsecase interface {
	ListUsers(ctx context.Context, input ListUsersInput) ([]UserSummary, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, input UpdateRoleInput) (MessageOutput, error)
	DeactivateUser(ctx context.Context, userID uuid.UUID) (MessageOutput, error)
	ReactivateUser(ctx context.Context, userID uuid.UUID) (MessageOutput, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) (MessageOutput, error)
}
