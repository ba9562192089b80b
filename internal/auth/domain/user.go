package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type User struct {
	ID               uuid.UUID
	Email            string
	PasswordHash     string
	FirstName        string
	LastName         string
	Role             Role
	IsActive         bool
	TwoFactorEnabled bool
	// TwoFactorSecret holds the AES-GCM encrypted TOTP secret; nil until
	// enrollment completes.
	TwoFactorSecret *string
	LastLoginAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) Validate() error {
	if u.Email == "" {
		return ErrInvalidUserEmail
	}

	if !emailRegex.MatchString(u.Email) {
		return ErrInvalidUserEmailFormat
	}

	if u.PasswordHash == "" {
		return ErrInvalidUserPassword
	}

	if u.FirstName == "" || u.LastName == "" {
		return ErrInvalidUserName
	}

	if len(u.FirstName) < MinNameLength || len(u.FirstName) > MaxNameLength ||
		len(u.LastName) < MinNameLength || len(u.LastName) > MaxNameLength {
		return ErrInvalidUserNameLength
	}

	if !u.Role.Valid() {
		return ErrInvalidUserRole
	}

	return nil
}

// NormalizeEmail is applied before every lookup and on creation so that the
// unique constraint and the brute-force counters key on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
