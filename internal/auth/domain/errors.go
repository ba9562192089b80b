package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrInvalidUserEmail       = errors.New("email is required")
	ErrInvalidUserEmailFormat = errors.New("email format is invalid")
	ErrInvalidUserPassword    = errors.New("password is required")
	ErrPasswordTooLong        = errors.New("password exceeds maximum length")
	ErrInvalidUserName        = errors.New("name is required")
	ErrInvalidUserNameLength  = errors.New("name must be between 2 and 100 characters")
	ErrInvalidUserRole        = errors.New("unknown role")
	ErrWeakPassword           = errors.New("password must be at least 8 characters, contain uppercase, lowercase, number, and special character")
	ErrUserAlreadyExists      = errors.New("user with this email already exists")
	ErrUserNotFound           = errors.New("user not found")

	// ErrInvalidCredentials is deliberately generic: the same message is
	// returned whether the email exists or not.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrIPBlocked        = errors.New("too many login attempts, please try again later")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrTempTokenInvalid = errors.New("invalid or expired two-factor token")

	ErrTwoFactorRequired      = errors.New("two-factor verification required")
	ErrTwoFactorNotEnabled    = errors.New("two-factor authentication is not enabled")
	ErrTwoFactorAlreadyOn     = errors.New("two-factor authentication is already enabled")
	ErrInvalidTwoFactorCode   = errors.New("invalid two-factor code")
	ErrTwoFactorNotConfigured = errors.New("two-factor enabled but no secret enrolled")
)

// LockedError reports an account lockout together with when it lifts. The
// remaining time is safe to reveal: the caller already knows their own email.
type LockedError struct {
	UnlockAt time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.MinutesRemaining())
}

func (e *LockedError) MinutesRemaining() int {
	remaining := time.Until(e.UnlockAt)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Minutes()))
}
