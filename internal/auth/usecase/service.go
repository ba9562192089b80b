package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"

	"github.com/kariemGerges/crashify-sub002/internal/audit"
	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/auth/repository"
	"github.com/kariemGerges/crashify-sub002/pkg/crypto"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
	"github.com/kariemGerges/crashify-sub002/pkg/mailer"
	"github.com/kariemGerges/crashify-sub002/pkg/password"
	"github.com/kariemGerges/crashify-sub002/pkg/totp"
	"github.com/kariemGerges/crashify-sub002/pkg/validator"
)

var _ AuthUsecase = (*AuthService)(nil)

// totpReplayWindow spans the accepted time step plus the skew on either
// side, the stretch during which an already-accepted code would still verify.
const totpReplayWindow = time.Duration(totp.Period*(2*totp.Skew+1)) * time.Second

type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	guard    *BruteForceGuard
	auditor  audit.Recorder
	mailer   mailer.Mailer

	// Accepted TOTP codes, remembered per user so a captured code cannot
	// be replayed within its validity window.
	usedCodes gcache.Cache

	// Injectable for tests; production uses the real clock.
	now   func() time.Time
	sleep func(time.Duration)
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	guard *BruteForceGuard,
	auditor audit.Recorder,
	m mailer.Mailer,
) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		guard:     guard,
		auditor:   auditor,
		mailer:    m,
		usedCodes: gcache.New(4096).LRU().Expiration(totpReplayWindow).Build(),
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// SetClock overrides the time source and the progressive-delay sleeper.
// Tests only.
func (s *AuthService) SetClock(now func() time.Time, sleep func(time.Duration)) {
	s.now = now
	s.sleep = sleep
	s.guard.now = now
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (RegisterOutput, error) {
	if errs := validator.CheckStrength(input.Password); len(errs) > 0 {
		return RegisterOutput{}, domain.ErrWeakPassword
	}

	email := domain.NormalizeEmail(input.Email)

	exists, err := s.users.UserExistsByEmail(ctx, email)
	if err != nil {
		logger.Error("repository error checking user existence:", err)
		return RegisterOutput{}, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return RegisterOutput{}, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := password.HashPassword(input.Password)
	if err != nil {
		logger.Error("password hashing error:", err)
		return RegisterOutput{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         domain.DefaultRole,
		IsActive:     true,
	}

	if err := user.Validate(); err != nil {
		return RegisterOutput{}, err
	}

	createdUser, err := s.users.CreateUser(ctx, user)
	if err != nil {
		logger.Error("repository error creating user:", err)
		return RegisterOutput{}, fmt.Errorf("failed to create user: %w", err)
	}

	return RegisterOutput{
		ID:      createdUser.ID.String(),
		Email:   createdUser.Email,
		Message: "User created successfully",
	}, nil
}

// Login runs the full orchestration: input validation, IP block check,
// account lock check, progressive delay, credential verification, then
// either a full session or a pending two-factor challenge.
func (s *AuthService) Login(ctx context.Context, input LoginInput, userAgent, ipAddress string) (LoginOutput, error) {
	// Malformed input is rejected before any storage access or delay.
	if err := validateLoginInput(input); err != nil {
		return LoginOutput{}, err
	}

	email := domain.NormalizeEmail(input.Email)

	blocked, err := s.guard.IsIPBlocked(ctx, ipAddress)
	if err != nil {
		return LoginOutput{}, err
	}
	if blocked {
		// Recorded as a failure so continued hammering keeps the block alive.
		if _, err := s.guard.RecordAttempt(ctx, email, ipAddress, false); err != nil {
			logger.Error("failed to record blocked attempt:", err)
		}
		s.auditor.Record(ctx, audit.Event{
			Email: email, IP: ipAddress, UserAgent: userAgent,
			Type: audit.EventLoginIPBlocked,
		})
		return LoginOutput{}, domain.ErrIPBlocked
	}

	locked, unlockAt, err := s.guard.AccountLockStatus(ctx, email)
	if err != nil {
		return LoginOutput{}, err
	}
	if locked {
		s.auditor.Record(ctx, audit.Event{
			Email: email, IP: ipAddress, UserAgent: userAgent,
			Type: audit.EventLoginLocked,
		})
		return LoginOutput{}, &domain.LockedError{UnlockAt: unlockAt}
	}

	delay, err := s.guard.ProgressiveDelay(ctx, email)
	if err != nil {
		return LoginOutput{}, err
	}
	if delay > 0 {
		// Suspends only this request; the cap bounds what a hostile
		// client can make us hold.
		s.sleep(delay)
	}

	user, err := s.users.GetActiveUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, email, ipAddress, userAgent, nil, "unknown or inactive account")
			return LoginOutput{}, domain.ErrInvalidCredentials
		}
		logger.Error("repository error fetching user:", err)
		return LoginOutput{}, fmt.Errorf("failed to fetch user: %w", err)
	}

	match, err := password.ComparePassword(user.PasswordHash, input.Password)
	if err != nil {
		logger.Error("password comparison error:", err)
		return LoginOutput{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		s.recordFailure(ctx, email, ipAddress, userAgent, &user.ID, "wrong password")
		return LoginOutput{}, domain.ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		// Counters stay untouched: the second factor has not succeeded yet.
		tempToken, err := s.createSession(ctx, user.ID, domain.SessionKindPending2FA, ipAddress, userAgent)
		if err != nil {
			return LoginOutput{}, err
		}

		return LoginOutput{
			RequiresTwoFactor: true,
			TempToken:         tempToken.SessionToken,
			Message:           "Two-factor verification required",
		}, nil
	}

	return s.completeLogin(ctx, user, email, ipAddress, userAgent)
}

// VerifyTwoFactor finishes a login that branched into a pending challenge.
func (s *AuthService) VerifyTwoFactor(ctx context.Context, input TwoFactorVerifyInput, userAgent, ipAddress string) (LoginOutput, error) {
	if input.TempToken == "" || len(input.Code) != 6 {
		return LoginOutput{}, domain.ErrTempTokenInvalid
	}

	session, err := s.sessions.GetSessionByToken(ctx, input.TempToken)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return LoginOutput{}, domain.ErrTempTokenInvalid
		}
		logger.Error("repository error fetching temp token:", err)
		return LoginOutput{}, fmt.Errorf("failed to fetch temp token: %w", err)
	}

	// An active session token presented here is misuse, not a challenge.
	if session.Kind != domain.SessionKindPending2FA {
		return LoginOutput{}, domain.ErrTempTokenInvalid
	}

	if session.IsExpired(s.now()) {
		s.deleteSessionQuiet(ctx, session.SessionToken)
		return LoginOutput{}, domain.ErrTempTokenInvalid
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil || !user.IsActive {
		s.deleteSessionQuiet(ctx, session.SessionToken)
		return LoginOutput{}, domain.ErrTempTokenInvalid
	}

	if user.TwoFactorSecret == nil {
		// Flag says enabled, but enrollment never finished. Internal
		// inconsistency, not a wrong code.
		logger.Error("two-factor enabled but no secret enrolled", "user_id", user.ID.String())
		return LoginOutput{}, domain.ErrTwoFactorNotConfigured
	}

	secret, err := crypto.DecryptSecret(*user.TwoFactorSecret)
	if err != nil {
		logger.Error("failed to decrypt two-factor secret:", err)
		return LoginOutput{}, domain.ErrTwoFactorNotConfigured
	}

	valid, err := totp.Verify(input.Code, secret)
	if err != nil {
		logger.Error("totp verification error:", err)
		return LoginOutput{}, fmt.Errorf("failed to verify code: %w", err)
	}

	// A code is single-use; a replay inside its window counts as a wrong guess.
	if valid && s.codeAlreadyUsed(user.ID, input.Code) {
		valid = false
	}

	if !valid {
		s.auditor.Record(ctx, audit.Event{
			UserID: &user.ID, Email: user.Email, IP: ipAddress, UserAgent: userAgent,
			Type: audit.EventTwoFactorFailure, Reason: "wrong code",
		})

		attempts, err := s.sessions.IncrementTwoFactorAttempts(ctx, session.SessionToken)
		if err != nil {
			logger.Error("failed to count two-factor attempt:", err)
		} else if attempts >= domain.MaxTwoFactorAttempts {
			// The token dies after too many guesses; the caller has to
			// log in again.
			s.deleteSessionQuiet(ctx, session.SessionToken)
			return LoginOutput{}, domain.ErrTempTokenInvalid
		}

		return LoginOutput{}, domain.ErrInvalidTwoFactorCode
	}

	s.markCodeUsed(user.ID, input.Code)

	// Burn the challenge before issuing the real session.
	s.deleteSessionQuiet(ctx, session.SessionToken)

	s.auditor.Record(ctx, audit.Event{
		UserID: &user.ID, Email: user.Email, IP: ipAddress, UserAgent: userAgent,
		Type: audit.EventTwoFactorSuccess,
	})

	return s.completeLogin(ctx, user, user.Email, ipAddress, userAgent)
}

func (s *AuthService) Logout(ctx context.Context, token string) (LogoutOutput, error) {
	if token == "" {
		return LogoutOutput{Message: "Logged out successfully"}, nil
	}

	// Best-effort identification for the audit trail before the row goes.
	if session, err := s.sessions.GetSessionByToken(ctx, token); err == nil {
		s.auditor.Record(ctx, audit.Event{
			UserID: &session.UserID, IP: session.IpAddress, UserAgent: session.UserAgent,
			Type: audit.EventLogout,
		})
	}

	if err := s.sessions.DeleteSessionByToken(ctx, token); err != nil {
		logger.Error("failed to delete session during logout:", err)
		return LogoutOutput{}, fmt.Errorf("failed to logout: %w", err)
	}

	return LogoutOutput{Message: "Logged out successfully"}, nil
}

// CurrentUser resolves a bearer token to its owning user. Expiry is
// re-checked on every call, and a stale row is deleted on sight.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (UserInfo, error) {
	if token == "" {
		return UserInfo{}, domain.ErrSessionNotFound
	}

	session, err := s.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return UserInfo{}, domain.ErrSessionNotFound
		}
		return UserInfo{}, fmt.Errorf("failed to fetch session: %w", err)
	}

	// A pending-2FA token is not a session, whatever cookie jar it came from.
	if session.Kind != domain.SessionKindActive {
		return UserInfo{}, domain.ErrSessionNotFound
	}

	if session.IsExpired(s.now()) {
		s.deleteSessionQuiet(ctx, token)
		return UserInfo{}, domain.ErrSessionExpired
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		// Orphaned session row; treat as unauthenticated.
		s.deleteSessionQuiet(ctx, token)
		return UserInfo{}, domain.ErrSessionNotFound
	}

	if !user.IsActive {
		s.deleteSessionQuiet(ctx, token)
		return UserInfo{}, domain.ErrSessionNotFound
	}

	return toUserInfo(user), nil
}

// SetupTwoFactor generates and stores a fresh encrypted secret and returns
// the enrollment material. The enabled flag stays off until the user proves
// possession via EnableTwoFactor.
func (s *AuthService) SetupTwoFactor(ctx context.Context, userID uuid.UUID) (TwoFactorSetupOutput, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return TwoFactorSetupOutput{}, err
	}

	if user.TwoFactorEnabled {
		return TwoFactorSetupOutput{}, domain.ErrTwoFactorAlreadyOn
	}

	enrollment, err := totp.GenerateSecret(user.Email)
	if err != nil {
		logger.Error("failed to generate two-factor secret:", err)
		return TwoFactorSetupOutput{}, fmt.Errorf("failed to generate secret: %w", err)
	}

	encrypted, err := crypto.EncryptSecret(enrollment.Secret)
	if err != nil {
		logger.Error("failed to encrypt two-factor secret:", err)
		return TwoFactorSetupOutput{}, fmt.Errorf("failed to encrypt secret: %w", err)
	}

	if err := s.users.SetTwoFactorSecret(ctx, user.ID, encrypted); err != nil {
		logger.Error("failed to store two-factor secret:", err)
		return TwoFactorSetupOutput{}, fmt.Errorf("failed to store secret: %w", err)
	}

	return TwoFactorSetupOutput{
		Secret:     enrollment.Secret,
		OtpauthURI: enrollment.OtpauthURI,
		QRCodePNG:  base64.StdEncoding.EncodeToString(enrollment.QRCodePNG),
	}, nil
}

func (s *AuthService) EnableTwoFactor(ctx context.Context, userID uuid.UUID, input TwoFactorEnableInput) (MessageOutput, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return MessageOutput{}, err
	}

	if user.TwoFactorEnabled {
		return MessageOutput{}, domain.ErrTwoFactorAlreadyOn
	}

	if user.TwoFactorSecret == nil {
		return MessageOutput{}, domain.ErrTwoFactorNotConfigured
	}

	secret, err := crypto.DecryptSecret(*user.TwoFactorSecret)
	if err != nil {
		logger.Error("failed to decrypt two-factor secret:", err)
		return MessageOutput{}, domain.ErrTwoFactorNotConfigured
	}

	valid, err := totp.Verify(input.Code, secret)
	if err != nil {
		return MessageOutput{}, fmt.Errorf("failed to verify code: %w", err)
	}
	if valid && s.codeAlreadyUsed(user.ID, input.Code) {
		valid = false
	}
	if !valid {
		return MessageOutput{}, domain.ErrInvalidTwoFactorCode
	}

	s.markCodeUsed(user.ID, input.Code)

	if err := s.users.EnableTwoFactor(ctx, user.ID); err != nil {
		logger.Error("failed to enable two-factor:", err)
		return MessageOutput{}, fmt.Errorf("failed to enable two-factor: %w", err)
	}

	return MessageOutput{Message: "Two-factor authentication enabled"}, nil
}

// completeLogin is shared by the direct path and the post-2FA path: reset
// counters, mint the full session, record success.
func (s *AuthService) completeLogin(ctx context.Context, user *domain.User, email, ipAddress, userAgent string) (LoginOutput, error) {
	if _, err := s.guard.RecordAttempt(ctx, email, ipAddress, true); err != nil {
		logger.Error("failed to reset attempt counters:", err)
	}

	session, err := s.createSession(ctx, user.ID, domain.SessionKindActive, ipAddress, userAgent)
	if err != nil {
		return LoginOutput{}, err
	}

	// Last-login is bookkeeping; it must not hold up the response.
	go func(userID uuid.UUID) {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.users.UpdateLastLoginAt(bgCtx, userID); err != nil {
			logger.Error("failed to update last login timestamp:", err)
		}
	}(user.ID)

	s.auditor.Record(ctx, audit.Event{
		UserID: &user.ID, Email: user.Email, IP: ipAddress, UserAgent: userAgent,
		Type: audit.EventLoginSuccess,
	})

	return LoginOutput{
		User: toUserInfo(user),
		Session: SessionInfo{
			Token:     session.SessionToken,
			ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		},
		Message: "Login successful",
	}, nil
}

func (s *AuthService) createSession(ctx context.Context, userID uuid.UUID, kind domain.SessionKind, ipAddress, userAgent string) (*domain.Session, error) {
	token, err := domain.GenerateSecureToken()
	if err != nil {
		logger.Error("failed to generate session token:", err)
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	ttl := domain.ActiveSessionTTL
	if kind == domain.SessionKindPending2FA {
		ttl = domain.PendingSessionTTL
	}

	now := s.now()
	session := &domain.Session{
		UserID:       userID,
		SessionToken: token,
		Kind:         kind,
		IpAddress:    ipAddress,
		UserAgent:    userAgent,
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		logger.Error("failed to store session:", err)
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return session, nil
}

// recordFailure advances the counters, audits, and fires the lockout
// notification when this failure is the one that crossed the threshold.
func (s *AuthService) recordFailure(ctx context.Context, email, ipAddress, userAgent string, userID *uuid.UUID, reason string) {
	count, err := s.guard.RecordAttempt(ctx, email, ipAddress, false)
	if err != nil {
		logger.Error("failed to record login failure:", err)
	}

	s.auditor.Record(ctx, audit.Event{
		UserID: userID, Email: email, IP: ipAddress, UserAgent: userAgent,
		Type: audit.EventLoginFailure, Reason: reason,
	})

	if count == domain.MaxFailedAttempts && userID != nil {
		s.mailer.SendMailAsync(email, "account-locked", map[string]any{
			"LOCKOUT_MINUTES": int(domain.LockoutDuration.Minutes()),
		}, "lockout-notification")
	}
}

func (s *AuthService) codeAlreadyUsed(userID uuid.UUID, code string) bool {
	_, err := s.usedCodes.Get(userID.String() + ":" + code)
	return err == nil
}

func (s *AuthService) markCodeUsed(userID uuid.UUID, code string) {
	_ = s.usedCodes.Set(userID.String()+":"+code, struct{}{})
}

func (s *AuthService) deleteSessionQuiet(ctx context.Context, token string) {
	if err := s.sessions.DeleteSessionByToken(ctx, token); err != nil {
		logger.Error("failed to delete session:", err)
	}
}

func validateLoginInput(input LoginInput) error {
	// Validated in normalized form so "  User@Example.COM " is the same
	// input the counters and lookups will key on.
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return domain.ErrInvalidUserEmail
	}
	if !domain.IsValidEmail(email) {
		return domain.ErrInvalidUserEmailFormat
	}
	if input.Password == "" {
		return domain.ErrInvalidUserPassword
	}
	if len(input.Password) > validator.MaxPasswordLength {
		return domain.ErrPasswordTooLong
	}
	return nil
}

func toUserInfo(user *domain.User) UserInfo {
	return UserInfo{
		ID:        user.ID.String(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	}
}
