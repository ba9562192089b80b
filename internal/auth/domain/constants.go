package domain

import "time"

const (
	// SessionCookieName is the fixed bearer-credential cookie identifier.
	SessionCookieName = "session_token"

	// ActiveSessionTTL bounds a fully authenticated session.
	ActiveSessionTTL = 2 * time.Hour

	// PendingSessionTTL bounds a pending-2FA challenge token.
	PendingSessionTTL = 5 * time.Minute

	// MaxFailedAttempts is the consecutive-failure threshold per account
	// before the account locks.
	MaxFailedAttempts = 5

	// MaxFailedAttemptsPerIP is the looser per-source threshold, sized to
	// catch distributed single-account attacks without punishing shared
	// corporate egress addresses.
	MaxFailedAttemptsPerIP = 20

	// LockoutDuration is how long an account or IP stays locked, counted
	// from the last failure.
	LockoutDuration = 15 * time.Minute

	// AttemptWindow is the rolling window; failures older than this no
	// longer count toward the thresholds.
	AttemptWindow = 15 * time.Minute

	// DelayPerFailure and MaxProgressiveDelay shape the artificial delay
	// applied before credential verification once failures exist.
	DelayPerFailure     = 500 * time.Millisecond
	MaxProgressiveDelay = 5 * time.Second

	// MaxTwoFactorAttempts is the number of wrong codes a single pending
	// token tolerates before it is invalidated.
	MaxTwoFactorAttempts = 5

	MinNameLength = 2
	MaxNameLength = 100
)

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleReviewer   Role = "reviewer"
	RoleReadOnly   Role = "read_only"
)

// DefaultRole is assigned at registration; elevation is an admin action.
const DefaultRole = RoleReviewer

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleReviewer, RoleReadOnly:
		return true
	}
	return false
}
