package domain

import "time"

// AttemptKind distinguishes the two independent counter families.
type AttemptKind string

const (
	AttemptKindEmail AttemptKind = "email"
	AttemptKindIP    AttemptKind = "ip"
)

// LoginAttempt is the aggregate failure record for one key. Owned
// exclusively by the brute-force guard; nothing else reads or writes it.
type LoginAttempt struct {
	Kind          AttemptKind
	Key           string
	FailedCount   int
	LastFailureAt time.Time
}

// Stale reports whether the record's failures have aged out of the rolling
// window and no longer count.
func (a *LoginAttempt) Stale(now time.Time) bool {
	return now.Sub(a.LastFailureAt) >= AttemptWindow
}

// UnlockAt is computed from the last failure, never stored as a timer.
func (a *LoginAttempt) UnlockAt() time.Time {
	return a.LastFailureAt.Add(LockoutDuration)
}
