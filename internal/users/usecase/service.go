package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	authrepo "github.com/kariemGerges/crashify-sub002/internal/auth/repository"
	"github.com/kariemGerges/crashify-sub002/internal/users/repository"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
	"github.com/kariemGerges/crashify-sub002/pkg/password"
	"github.com/kariemGerges/crashify-sub002/pkg/validator"
)

var _ UserAdminUsecase = (*UserAdminService)(nil)

type UserAdminService struct {
	admin    repository.UserAdminRepository
	users    authrepo.UserRepository
	sessions authrepo.SessionRepository
}

func NewUserAdminService(
	admin repository.UserAdminRepository,
	users authrepo.UserRepository,
	sessions authrepo.SessionRepository,
) *UserAdminService {
	return &UserAdminService{
		admin:    admin,
		users:    users,
		sessions: sessions,
	}
}

func (s *UserAdminService) ListUsers(ctx context.Context, input ListUsersInput) ([]UserSummary, error) {
	users, err := s.admin.ListUsers(ctx, input.Limit, input.Offset)
	if err != nil {
		logger.Error("repository error listing users:", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	summaries := make([]UserSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, toSummary(user))
	}

	return summaries, nil
}

func (s *UserAdminService) UpdateRole(ctx context.Context, userID uuid.UUID, input UpdateRoleInput) (MessageOutput, error) {
	role := domain.Role(input.Role)
	if !role.Valid() {
		return MessageOutput{}, domain.ErrInvalidUserRole
	}

	if err := s.admin.UpdateRole(ctx, userID, role); err != nil {
		return MessageOutput{}, err
	}

	return MessageOutput{Message: "Role updated"}, nil
}

// DeactivateUser flips the soft flag and revokes every live session, so the
// account is locked out the moment the flag lands rather than when its
// sessions happen to expire.
func (s *UserAdminService) DeactivateUser(ctx context.Context, userID uuid.UUID) (MessageOutput, error) {
	if err := s.users.SetActive(ctx, userID, false); err != nil {
		return MessageOutput{}, err
	}

	if err := s.sessions.DeleteAllSessionsByUserID(ctx, userID); err != nil {
		logger.Error("failed to revoke sessions for deactivated user:", err)
		return MessageOutput{}, fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return MessageOutput{Message: "User deactivated"}, nil
}

func (s *UserAdminService) ReactivateUser(ctx context.Context, userID uuid.UUID) (MessageOutput, error) {
	if err := s.users.SetActive(ctx, userID, true); err != nil {
		return MessageOutput{}, err
	}

	return MessageOutput{Message: "User reactivated"}, nil
}

func (s *UserAdminService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) (MessageOutput, error) {
	if errs := validator.CheckStrength(input.NewPassword); len(errs) > 0 {
		return MessageOutput{}, domain.ErrWeakPassword
	}

	// Over-length input can never match a stored hash; refuse it before the
	// hasher turns it into an internal error.
	if len(input.CurrentPassword) > password.MaxPasswordBytes {
		return MessageOutput{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return MessageOutput{}, err
	}

	match, err := password.ComparePassword(user.PasswordHash, input.CurrentPassword)
	if err != nil {
		logger.Error("password comparison error:", err)
		return MessageOutput{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return MessageOutput{}, domain.ErrInvalidCredentials
	}

	hashed, err := password.HashPassword(input.NewPassword)
	if err != nil {
		logger.Error("password hashing error:", err)
		return MessageOutput{}, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.admin.UpdatePassword(ctx, userID, hashed); err != nil {
		return MessageOutput{}, err
	}

	return MessageOutput{Message: "Password changed"}, nil
}

func toSummary(user *domain.User) UserSummary {
	var lastLogin *string
	if user.LastLoginAt != nil {
		formatted := user.LastLoginAt.Format(time.RFC3339)
		lastLogin = &formatted
	}

	return UserSummary{
		ID:               user.ID.String(),
		Email:            user.Email,
		FirstName:        user.FirstName,
		LastName:         user.LastName,
		Role:             string(user.Role),
		IsActive:         user.IsActive,
		TwoFactorEnabled: user.TwoFactorEnabled,
		LastLoginAt:      lastLogin,
	}
}
