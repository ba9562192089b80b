package usecase

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=../test/mock_usecase.go -package=test github.com/kariemGerges/crashify-sub002/internal/auth/usecase AuthUsecase

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (RegisterOutput, error)
	Login(ctx context.Context, input LoginInput, userAgent, ipAddress string) (LoginOutput, error)
	VerifyTwoFactor(ctx context.Context, input TwoFactorVerifyInput, userAgent, ipAddress string) (LoginOutput, error)
	Logout(ctx context.Context, token string) (LogoutOutput, error)
	CurrentUser(ctx context.Context, token string) (UserInfo, error)
	SetupTwoFactor(ctx context.Context, userID uuid.UUID) (TwoFactorSetupOutput, error)
	EnableTwoFactor(ctx context.Context, userID uuid.UUID, input TwoFactorEnableInput) (MessageOutput, error)
}
