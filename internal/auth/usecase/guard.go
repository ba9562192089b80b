package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
	"github.com/kariemGerges/crashify-sub002/internal/auth/repository"
)

// BruteForceGuard tracks failed logins per account and per source address,
// independently. It owns the login_attempts records outright; no other
// component touches them.
//
// Storage failures propagate: when the guard cannot read its counters it
// refuses to guess, and the login aborts rather than degrading to allow.
type BruteForceGuard struct {
	attempts repository.AttemptRepository
	now      func() time.Time
}

func NewBruteForceGuard(attempts repository.AttemptRepository) *BruteForceGuard {
	return &BruteForceGuard{
		attempts: attempts,
		now:      time.Now,
	}
}

// AccountLockStatus reports whether the account is locked and, if so, when
// the lock lifts. The unlock time is computed from the last failure, never
// stored as a separate timer.
func (g *BruteForceGuard) AccountLockStatus(ctx context.Context, email string) (bool, time.Time, error) {
	attempt, err := g.attempts.Get(ctx, domain.AttemptKindEmail, email)
	if err != nil {
		return false, time.Time{}, fmt.Errorf("failed to read attempt record: %w", err)
	}

	if attempt == nil || attempt.Stale(g.now()) {
		return false, time.Time{}, nil
	}

	if attempt.FailedCount >= domain.MaxFailedAttempts {
		unlockAt := attempt.UnlockAt()
		if g.now().Before(unlockAt) {
			return true, unlockAt, nil
		}
	}

	return false, time.Time{}, nil
}

func (g *BruteForceGuard) IsIPBlocked(ctx context.Context, ip string) (bool, error) {
	if ip == "" {
		return false, nil
	}

	attempt, err := g.attempts.Get(ctx, domain.AttemptKindIP, ip)
	if err != nil {
		return false, fmt.Errorf("failed to read attempt record: %w", err)
	}

	if attempt == nil || attempt.Stale(g.now()) {
		return false, nil
	}

	return attempt.FailedCount >= domain.MaxFailedAttemptsPerIP && g.now().Before(attempt.UnlockAt()), nil
}

// ProgressiveDelay returns the artificial wait imposed before credential
// verification: half a second per prior failure, capped so a hostile client
// cannot pin server resources indefinitely.
func (g *BruteForceGuard) ProgressiveDelay(ctx context.Context, email string) (time.Duration, error) {
	attempt, err := g.attempts.Get(ctx, domain.AttemptKindEmail, email)
	if err != nil {
		return 0, fmt.Errorf("failed to read attempt record: %w", err)
	}

	if attempt == nil || attempt.FailedCount == 0 || attempt.Stale(g.now()) {
		return 0, nil
	}

	delay := time.Duration(attempt.FailedCount) * domain.DelayPerFailure
	if delay > domain.MaxProgressiveDelay {
		delay = domain.MaxProgressiveDelay
	}

	return delay, nil
}

// RecordAttempt updates the counters for one login outcome. On failure both
// the email and IP counters advance; on success only the email counter
// resets. A source that has hammered many accounts does not get cleared by
// one account's legitimate login.
//
// The returned count is the account's consecutive failures after this call,
// zero on success.
func (g *BruteForceGuard) RecordAttempt(ctx context.Context, email, ip string, success bool) (int, error) {
	if success {
		if err := g.ResetFailures(ctx, email); err != nil {
			return 0, err
		}
		return 0, nil
	}

	at := g.now()
	if err := g.attempts.RecordFailure(ctx, domain.AttemptKindEmail, email, at); err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}

	if ip != "" {
		if err := g.attempts.RecordFailure(ctx, domain.AttemptKindIP, ip, at); err != nil {
			return 0, fmt.Errorf("failed to record attempt: %w", err)
		}
	}

	attempt, err := g.attempts.Get(ctx, domain.AttemptKindEmail, email)
	if err != nil {
		return 0, fmt.Errorf("failed to read attempt record: %w", err)
	}
	if attempt == nil {
		return 0, nil
	}

	return attempt.FailedCount, nil
}

func (g *BruteForceGuard) ResetFailures(ctx context.Context, email string) error {
	if err := g.attempts.Reset(ctx, domain.AttemptKindEmail, email); err != nil {
		return fmt.Errorf("failed to reset attempt record: %w", err)
	}
	return nil
}
