package test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kariemGerges/crashify-sub002/internal/audit"
	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/auth/usecase"
	"github.com/kariemGerges/crashify-sub002/pkg/crypto"
	"github.com/kariemGerges/crashify-sub002/pkg/logger"
	"github.com/kariemGerges/crashify-sub002/pkg/password"
	"github.com/kariemGerges/crashify-sub002/pkg/totp"
)

func init() {
	logger.Init()
	if err := crypto.SetEncryptionKey("unit-test-only-encryption-key-0123456789"); err != nil {
		panic(err)
	}
}

const (
	testEmail    = "reviewer@crashify.io"
	testPassword = "Correct#Horse1"
	testIP       = "203.0.113.7"
	testAgent    = "integration-test/1.0"
)

type fixture struct {
	users    *MockUserRepository
	sessions *MockSessionRepository
	attempts *MockAttemptRepository
	auditor  *MockRecorder
	mailer   *recordingMailer
	service  *usecase.AuthService
}

// recordingMailer captures async sends so the lockout notification can be
// asserted without a real delivery backend.
type recordingMailer struct {
	sent chan string
}

func (m *recordingMailer) SendMail(to string, id string, data map[string]any) error {
	return nil
}

func (m *recordingMailer) SendMailAsync(to string, id string, data map[string]any, operationName string) {
	m.sent <- to
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		users:    NewMockUserRepository(ctrl),
		sessions: NewMockSessionRepository(ctrl),
		attempts: NewMockAttemptRepository(ctrl),
		auditor:  NewMockRecorder(ctrl),
		mailer:   &recordingMailer{sent: make(chan string, 1)},
	}
	guard := usecase.NewBruteForceGuard(f.attempts)
	f.service = usecase.NewAuthService(f.users, f.sessions, guard, f.auditor, f.mailer)
	return f
}

func activeUser(t *testing.T) *domain.User {
	t.Helper()
	hash, err := password.HashPassword(testPassword)
	require.NoError(t, err)

	return &domain.User{
		ID:           uuid.New(),
		Email:        testEmail,
		PasswordHash: hash,
		FirstName:    "Rita",
		LastName:     "Vega",
		Role:         domain.RoleReviewer,
		IsActive:     true,
	}
}

func eventOfType(want audit.EventType) gomock.Matcher {
	return gomock.Cond(func(x any) bool {
		event, ok := x.(audit.Event)
		return ok && event.Type == want
	})
}

// expectCleanCounters satisfies the IP-block, account-lock, and delay reads
// for a caller with no failure history.
func (f *fixture) expectCleanCounters() {
	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindIP, testIP).Return(nil, nil)
	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindEmail, testEmail).Return(nil, nil).Times(2)
}

// expectFailureRecorded covers the counter advance on both keys plus the
// post-failure re-read that yields the account's new count.
func (f *fixture) expectFailureRecorded(newCount int) {
	f.attempts.EXPECT().RecordFailure(gomock.Any(), domain.AttemptKindEmail, testEmail, gomock.Any()).Return(nil)
	f.attempts.EXPECT().RecordFailure(gomock.Any(), domain.AttemptKindIP, testIP, gomock.Any()).Return(nil)
	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindEmail, testEmail).
		Return(&domain.LoginAttempt{Kind: domain.AttemptKindEmail, Key: testEmail, FailedCount: newCount, LastFailureAt: time.Now()}, nil)
}

func TestLogin_UnknownEmailIsGenericFailure(t *testing.T) {
	f := newFixture(t)
	f.expectCleanCounters()

	f.users.EXPECT().GetActiveUserByEmail(gomock.Any(), testEmail).Return(nil, domain.ErrUserNotFound)
	f.expectFailureRecorded(1)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginFailure))

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: testPassword}, testAgent, testIP)

	// Same sentinel as a wrong password; existence is not disclosed.
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_WrongPasswordIsGenericFailure(t *testing.T) {
	f := newFixture(t)
	f.expectCleanCounters()

	f.users.EXPECT().GetActiveUserByEmail(gomock.Any(), testEmail).Return(activeUser(t), nil)
	f.expectFailureRecorded(1)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginFailure))

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: "Wrong#Horse1"}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_NormalizesEmailBeforeLookup(t *testing.T) {
	f := newFixture(t)
	f.expectCleanCounters()

	f.users.EXPECT().GetActiveUserByEmail(gomock.Any(), testEmail).Return(nil, domain.ErrUserNotFound)
	f.expectFailureRecorded(1)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginFailure))

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: "  Reviewer@Crashify.IO ", Password: testPassword}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_LockedAccountReportsUnlockTime(t *testing.T) {
	f := newFixture(t)

	lastFailure := time.Now().Add(-2 * time.Minute)
	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindIP, testIP).Return(nil, nil)
	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindEmail, testEmail).
		Return(&domain.LoginAttempt{Kind: domain.AttemptKindEmail, Key: testEmail, FailedCount: domain.MaxFailedAttempts, LastFailureAt: lastFailure}, nil)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginLocked))

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: testPassword}, testAgent, testIP)

	var lockedErr *domain.LockedError
	require.ErrorAs(t, err, &lockedErr)
	assert.Equal(t, lastFailure.Add(domain.LockoutDuration), lockedErr.UnlockAt)
	assert.Equal(t, 13, lockedErr.MinutesRemaining())
}

func TestLogin_BlockedIPStillAdvancesCounters(t *testing.T) {
	f := newFixture(t)

	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindIP, testIP).
		Return(&domain.LoginAttempt{Kind: domain.AttemptKindIP, Key: testIP, FailedCount: domain.MaxFailedAttemptsPerIP, LastFailureAt: time.Now().Add(-time.Minute)}, nil)
	f.expectFailureRecorded(3)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginIPBlocked))

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: testPassword}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrIPBlocked)
}

func TestLogin_GuardStorageErrorAbortsLogin(t *testing.T) {
	f := newFixture(t)

	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindIP, testIP).
		Return(nil, assert.AnError)

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: testPassword}, testAgent, testIP)

	// Counters unreadable means deny, never degrade to allow.
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_SuccessMintsActiveSession(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)

	f.expectCleanCounters()
	f.users.EXPECT().GetActiveUserByEmail(gomock.Any(), testEmail).Return(user, nil)
	f.attempts.EXPECT().Reset(gomock.Any(), domain.AttemptKindEmail, testEmail).Return(nil)

	var created *domain.Session
	f.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, session *domain.Session) error {
			created = session
			return nil
		})

	lastLoginDone := make(chan struct{})
	f.users.EXPECT().UpdateLastLoginAt(gomock.Any(), user.ID).
		DoAndReturn(func(context.Context, uuid.UUID) error {
			close(lastLoginDone)
			return nil
		})
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginSuccess))

	output, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: testPassword}, testAgent, testIP)
	require.NoError(t, err)

	assert.False(t, output.RequiresTwoFactor)
	assert.Equal(t, user.Email, output.User.Email)
	assert.Equal(t, string(domain.RoleReviewer), output.User.Role)

	require.NotNil(t, created)
	assert.Equal(t, domain.SessionKindActive, created.Kind)
	assert.Equal(t, output.Session.Token, created.SessionToken)
	assert.Len(t, created.SessionToken, 64)
	assert.WithinDuration(t, time.Now().Add(domain.ActiveSessionTTL), created.ExpiresAt, 2*time.Second)

	select {
	case <-lastLoginDone:
	case <-time.After(time.Second):
		t.Fatal("last-login update never ran")
	}
}

func TestLogin_TwoFactorBranchDefersCounterReset(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)
	user.TwoFactorEnabled = true

	f.expectCleanCounters()
	f.users.EXPECT().GetActiveUserByEmail(gomock.Any(), testEmail).Return(user, nil)

	var created *domain.Session
	f.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, session *domain.Session) error {
			created = session
			return nil
		})

	output, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: testPassword}, testAgent, testIP)
	require.NoError(t, err)

	// No Reset, no session cookie material, no last-login write: the login
	// is not done until the second factor lands.
	assert.True(t, output.RequiresTwoFactor)
	assert.NotEmpty(t, output.TempToken)
	assert.Empty(t, output.Session.Token)

	require.NotNil(t, created)
	assert.Equal(t, domain.SessionKindPending2FA, created.Kind)
	assert.WithinDuration(t, time.Now().Add(domain.PendingSessionTTL), created.ExpiresAt, 2*time.Second)
}

func TestLogin_ProgressiveDelayScalesWithFailures(t *testing.T) {
	f := newFixture(t)

	var slept time.Duration
	f.service.SetClock(time.Now, func(d time.Duration) { slept = d })

	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindIP, testIP).Return(nil, nil)
	f.attempts.EXPECT().Get(gomock.Any(), domain.AttemptKindEmail, testEmail).
		Return(&domain.LoginAttempt{Kind: domain.AttemptKindEmail, Key: testEmail, FailedCount: 3, LastFailureAt: time.Now().Add(-time.Minute)}, nil).
		Times(2)

	f.users.EXPECT().GetActiveUserByEmail(gomock.Any(), testEmail).Return(nil, domain.ErrUserNotFound)
	f.expectFailureRecorded(4)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginFailure))

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: testPassword}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.Equal(t, 3*domain.DelayPerFailure, slept)
}

func TestLogin_LockoutNotificationFiresAtThreshold(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)

	f.expectCleanCounters()
	f.users.EXPECT().GetActiveUserByEmail(gomock.Any(), testEmail).Return(user, nil)
	f.expectFailureRecorded(domain.MaxFailedAttempts)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginFailure))

	_, err := f.service.Login(context.Background(), usecase.LoginInput{Email: testEmail, Password: "Wrong#Horse1"}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	select {
	case to := <-f.mailer.sent:
		assert.Equal(t, testEmail, to)
	default:
		t.Fatal("lockout notification was not sent")
	}
}

func TestLogin_RejectsMalformedInputBeforeStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Login(ctx, usecase.LoginInput{Email: "", Password: testPassword}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidUserEmail)

	_, err = f.service.Login(ctx, usecase.LoginInput{Email: "not-an-email", Password: testPassword}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidUserEmailFormat)

	_, err = f.service.Login(ctx, usecase.LoginInput{Email: testEmail, Password: ""}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidUserPassword)

	// Longer than any storable credential; refused outright rather than
	// surfacing a hasher error.
	oversized := "Correct#Horse1" + strings.Repeat("x", 90)
	_, err = f.service.Login(ctx, usecase.LoginInput{Email: testEmail, Password: oversized}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrPasswordTooLong)
}

// enrolledUser returns a user mid-2FA with a real encrypted secret, plus a
// currently valid code for it.
func enrolledUser(t *testing.T) (*domain.User, string) {
	t.Helper()
	user := activeUser(t)
	user.TwoFactorEnabled = true

	enrollment, err := totp.GenerateSecret(user.Email)
	require.NoError(t, err)

	encrypted, err := crypto.EncryptSecret(enrollment.Secret)
	require.NoError(t, err)
	user.TwoFactorSecret = &encrypted

	code, err := totp.CodeAt(enrollment.Secret, time.Now())
	require.NoError(t, err)

	return user, code
}

func wrongCode(code string) string {
	last := code[len(code)-1]
	return code[:len(code)-1] + string('0'+(last-'0'+5)%10)
}

func pendingSession(userID uuid.UUID) *domain.Session {
	return &domain.Session{
		ID:           uuid.New(),
		UserID:       userID,
		SessionToken: "pending-token",
		Kind:         domain.SessionKindPending2FA,
		IpAddress:    testIP,
		UserAgent:    testAgent,
		ExpiresAt:    time.Now().Add(domain.PendingSessionTTL),
		CreatedAt:    time.Now(),
	}
}

func TestVerifyTwoFactor_ValidCodeCompletesLogin(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	pending := pendingSession(user.ID)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), pending.SessionToken).Return(pending, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)

	// The challenge is burned before the real session is minted.
	f.sessions.EXPECT().DeleteSessionByToken(gomock.Any(), pending.SessionToken).Return(nil)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventTwoFactorSuccess))

	f.attempts.EXPECT().Reset(gomock.Any(), domain.AttemptKindEmail, testEmail).Return(nil)
	var created *domain.Session
	f.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, session *domain.Session) error {
			created = session
			return nil
		})
	lastLoginDone := make(chan struct{})
	f.users.EXPECT().UpdateLastLoginAt(gomock.Any(), user.ID).
		DoAndReturn(func(context.Context, uuid.UUID) error {
			close(lastLoginDone)
			return nil
		})
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginSuccess))

	output, err := f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: code, TempToken: pending.SessionToken}, testAgent, testIP)
	require.NoError(t, err)

	assert.False(t, output.RequiresTwoFactor)
	require.NotNil(t, created)
	assert.Equal(t, domain.SessionKindActive, created.Kind)
	assert.NotEqual(t, pending.SessionToken, created.SessionToken)

	select {
	case <-lastLoginDone:
	case <-time.After(time.Second):
		t.Fatal("last-login update never ran")
	}
}

func TestVerifyTwoFactor_AcceptedCodeCannotBeReplayed(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	first := pendingSession(user.ID)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), first.SessionToken).Return(first, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.sessions.EXPECT().DeleteSessionByToken(gomock.Any(), first.SessionToken).Return(nil)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventTwoFactorSuccess))
	f.attempts.EXPECT().Reset(gomock.Any(), domain.AttemptKindEmail, testEmail).Return(nil)
	f.sessions.EXPECT().CreateSession(gomock.Any(), gomock.Any()).Return(nil)
	lastLoginDone := make(chan struct{})
	f.users.EXPECT().UpdateLastLoginAt(gomock.Any(), user.ID).
		DoAndReturn(func(context.Context, uuid.UUID) error {
			close(lastLoginDone)
			return nil
		})
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLoginSuccess))

	_, err := f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: code, TempToken: first.SessionToken}, testAgent, testIP)
	require.NoError(t, err)

	// A second challenge presenting the captured code is a wrong guess,
	// even though the code still verifies cryptographically.
	second := pendingSession(user.ID)
	second.SessionToken = "pending-token-2"
	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), second.SessionToken).Return(second, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventTwoFactorFailure))
	f.sessions.EXPECT().IncrementTwoFactorAttempts(gomock.Any(), second.SessionToken).Return(1, nil)

	_, err = f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: code, TempToken: second.SessionToken}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidTwoFactorCode)

	select {
	case <-lastLoginDone:
	case <-time.After(time.Second):
		t.Fatal("last-login update never ran")
	}
}

func TestVerifyTwoFactor_WrongCodeCountsAttempt(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	pending := pendingSession(user.ID)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), pending.SessionToken).Return(pending, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventTwoFactorFailure))
	f.sessions.EXPECT().IncrementTwoFactorAttempts(gomock.Any(), pending.SessionToken).Return(1, nil)

	_, err := f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: wrongCode(code), TempToken: pending.SessionToken}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrInvalidTwoFactorCode)
}

func TestVerifyTwoFactor_TokenDiesAfterMaxAttempts(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	pending := pendingSession(user.ID)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), pending.SessionToken).Return(pending, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventTwoFactorFailure))
	f.sessions.EXPECT().IncrementTwoFactorAttempts(gomock.Any(), pending.SessionToken).Return(domain.MaxTwoFactorAttempts, nil)
	f.sessions.EXPECT().DeleteSessionByToken(gomock.Any(), pending.SessionToken).Return(nil)

	_, err := f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: wrongCode(code), TempToken: pending.SessionToken}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrTempTokenInvalid)
}

func TestVerifyTwoFactor_ExpiredTokenIsDeleted(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	pending := pendingSession(user.ID)
	pending.ExpiresAt = time.Now().Add(-time.Second)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), pending.SessionToken).Return(pending, nil)
	f.sessions.EXPECT().DeleteSessionByToken(gomock.Any(), pending.SessionToken).Return(nil)

	_, err := f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: code, TempToken: pending.SessionToken}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrTempTokenInvalid)
}

func TestVerifyTwoFactor_ActiveTokenIsRejected(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	session := pendingSession(user.ID)
	session.Kind = domain.SessionKindActive

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), session.SessionToken).Return(session, nil)

	_, err := f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: code, TempToken: session.SessionToken}, testAgent, testIP)
	assert.ErrorIs(t, err, domain.ErrTempTokenInvalid)
}

func TestVerifyTwoFactor_MissingSecretIsInternal(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	user.TwoFactorSecret = nil
	pending := pendingSession(user.ID)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), pending.SessionToken).Return(pending, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)

	_, err := f.service.VerifyTwoFactor(context.Background(), usecase.TwoFactorVerifyInput{Code: code, TempToken: pending.SessionToken}, testAgent, testIP)

	// Inconsistency, not a wrong guess; no attempt is charged.
	assert.ErrorIs(t, err, domain.ErrTwoFactorNotConfigured)
}

func activeSession(userID uuid.UUID) *domain.Session {
	return &domain.Session{
		ID:           uuid.New(),
		UserID:       userID,
		SessionToken: "active-token",
		Kind:         domain.SessionKindActive,
		IpAddress:    testIP,
		UserAgent:    testAgent,
		ExpiresAt:    time.Now().Add(domain.ActiveSessionTTL),
		CreatedAt:    time.Now(),
	}
}

func TestCurrentUser_ResolvesActiveSession(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)
	session := activeSession(user.ID)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), session.SessionToken).Return(session, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)

	info, err := f.service.CurrentUser(context.Background(), session.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), info.ID)
	assert.Equal(t, user.Email, info.Email)
}

func TestCurrentUser_ExpiredSessionIsDeletedOnSight(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)
	session := activeSession(user.ID)
	session.ExpiresAt = time.Now().Add(-time.Second)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), session.SessionToken).Return(session, nil)
	f.sessions.EXPECT().DeleteSessionByToken(gomock.Any(), session.SessionToken).Return(nil)

	_, err := f.service.CurrentUser(context.Background(), session.SessionToken)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestCurrentUser_PendingTokenIsNotASession(t *testing.T) {
	f := newFixture(t)
	session := pendingSession(uuid.New())

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), session.SessionToken).Return(session, nil)

	_, err := f.service.CurrentUser(context.Background(), session.SessionToken)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCurrentUser_DeactivatedUserLosesSession(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)
	user.IsActive = false
	session := activeSession(user.ID)

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), session.SessionToken).Return(session, nil)
	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.sessions.EXPECT().DeleteSessionByToken(gomock.Any(), session.SessionToken).Return(nil)

	_, err := f.service.CurrentUser(context.Background(), session.SessionToken)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLogout_DeletesSessionAndAudits(t *testing.T) {
	f := newFixture(t)
	session := activeSession(uuid.New())

	f.sessions.EXPECT().GetSessionByToken(gomock.Any(), session.SessionToken).Return(session, nil)
	f.auditor.EXPECT().Record(gomock.Any(), eventOfType(audit.EventLogout))
	f.sessions.EXPECT().DeleteSessionByToken(gomock.Any(), session.SessionToken).Return(nil)

	output, err := f.service.Logout(context.Background(), session.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "Logged out successfully", output.Message)
}

func TestLogout_EmptyTokenIsNoop(t *testing.T) {
	f := newFixture(t)

	output, err := f.service.Logout(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Logged out successfully", output.Message)
}

func TestRegister_AssignsDefaultRole(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().UserExistsByEmail(gomock.Any(), testEmail).Return(false, nil)

	var created *domain.User
	f.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user *domain.User) (*domain.User, error) {
			created = user
			stored := *user
			stored.ID = uuid.New()
			return &stored, nil
		})

	output, err := f.service.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Rita",
		LastName:  "Vega",
		Email:     "Reviewer@Crashify.IO",
		Password:  testPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, testEmail, output.Email)
	require.NotNil(t, created)
	assert.Equal(t, domain.DefaultRole, created.Role)
	assert.True(t, created.IsActive)

	// The stored hash must verify and must not be the plaintext.
	assert.NotEqual(t, testPassword, created.PasswordHash)
	match, err := password.ComparePassword(created.PasswordHash, testPassword)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestRegister_WeakPasswordRejectedBeforeStorage(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Rita",
		LastName:  "Vega",
		Email:     testEmail,
		Password:  "short",
	})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegister_OverLengthPasswordRejectedBeforeStorage(t *testing.T) {
	f := newFixture(t)

	// Satisfies every character rule but exceeds what bcrypt can hash.
	_, err := f.service.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Rita",
		LastName:  "Vega",
		Email:     testEmail,
		Password:  "Correct#Horse1" + strings.Repeat("x", 90),
	})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().UserExistsByEmail(gomock.Any(), testEmail).Return(true, nil)

	_, err := f.service.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Rita",
		LastName:  "Vega",
		Email:     testEmail,
		Password:  testPassword,
	})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestSetupTwoFactor_StoresEncryptedSecret(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)

	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)

	var stored string
	f.users.EXPECT().SetTwoFactorSecret(gomock.Any(), user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, encrypted string) error {
			stored = encrypted
			return nil
		})

	output, err := f.service.SetupTwoFactor(context.Background(), user.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, output.Secret)
	assert.Contains(t, output.OtpauthURI, "otpauth://totp/")
	assert.NotEmpty(t, output.QRCodePNG)

	// At rest the secret is ciphertext; decrypting it recovers the original.
	require.NotEqual(t, output.Secret, stored)
	decrypted, err := crypto.DecryptSecret(stored)
	require.NoError(t, err)
	assert.Equal(t, output.Secret, decrypted)
}

func TestSetupTwoFactor_AlreadyEnabledConflicts(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)
	user.TwoFactorEnabled = true

	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)

	_, err := f.service.SetupTwoFactor(context.Background(), user.ID)
	assert.ErrorIs(t, err, domain.ErrTwoFactorAlreadyOn)
}

func TestEnableTwoFactor_ValidCodeFlipsFlag(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	user.TwoFactorEnabled = false

	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)
	f.users.EXPECT().EnableTwoFactor(gomock.Any(), user.ID).Return(nil)

	_, err := f.service.EnableTwoFactor(context.Background(), user.ID, usecase.TwoFactorEnableInput{Code: code})
	assert.NoError(t, err)
}

func TestEnableTwoFactor_EnrollmentCodeIsSingleUse(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	user.TwoFactorEnabled = false

	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil).Times(2)
	f.users.EXPECT().EnableTwoFactor(gomock.Any(), user.ID).Return(nil)

	_, err := f.service.EnableTwoFactor(context.Background(), user.ID, usecase.TwoFactorEnableInput{Code: code})
	require.NoError(t, err)

	_, err = f.service.EnableTwoFactor(context.Background(), user.ID, usecase.TwoFactorEnableInput{Code: code})
	assert.ErrorIs(t, err, domain.ErrInvalidTwoFactorCode)
}

func TestEnableTwoFactor_WrongCodeKeepsFlagOff(t *testing.T) {
	f := newFixture(t)
	user, code := enrolledUser(t)
	user.TwoFactorEnabled = false

	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)

	_, err := f.service.EnableTwoFactor(context.Background(), user.ID, usecase.TwoFactorEnableInput{Code: wrongCode(code)})
	assert.ErrorIs(t, err, domain.ErrInvalidTwoFactorCode)
}

func TestEnableTwoFactor_WithoutSetupFails(t *testing.T) {
	f := newFixture(t)
	user := activeUser(t)

	f.users.EXPECT().GetUserByID(gomock.Any(), user.ID).Return(user, nil)

	_, err := f.service.EnableTwoFactor(context.Background(), user.ID, usecase.TwoFactorEnableInput{Code: "123456"})
	assert.ErrorIs(t, err, domain.ErrTwoFactorNotConfigured)
}
