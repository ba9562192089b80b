package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kariemGerges/crashify-sub002/internal/auth/domain"
)

// fakeAttemptRepo mirrors the SQL upsert's rolling-window semantics in
// memory so guard logic can be exercised without a database.
type fakeAttemptRepo struct {
	records map[string]*domain.LoginAttempt
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{records: make(map[string]*domain.LoginAttempt)}
}

func attemptKey(kind domain.AttemptKind, key string) string {
	return string(kind) + ":" + key
}

func (f *fakeAttemptRepo) Get(_ context.Context, kind domain.AttemptKind, key string) (*domain.LoginAttempt, error) {
	rec, ok := f.records[attemptKey(kind, key)]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeAttemptRepo) RecordFailure(_ context.Context, kind domain.AttemptKind, key string, at time.Time) error {
	k := attemptKey(kind, key)
	rec, ok := f.records[k]
	if !ok || at.Sub(rec.LastFailureAt) >= domain.AttemptWindow {
		f.records[k] = &domain.LoginAttempt{Kind: kind, Key: key, FailedCount: 1, LastFailureAt: at}
		return nil
	}
	rec.FailedCount++
	rec.LastFailureAt = at
	return nil
}

func (f *fakeAttemptRepo) Reset(_ context.Context, kind domain.AttemptKind, key string) error {
	delete(f.records, attemptKey(kind, key))
	return nil
}

func newTestGuard() (*BruteForceGuard, *fakeAttemptRepo, *time.Time) {
	repo := newFakeAttemptRepo()
	guard := NewBruteForceGuard(repo)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	guard.now = func() time.Time { return now }
	return guard, repo, &now
}

func failN(t *testing.T, guard *BruteForceGuard, email, ip string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := guard.RecordAttempt(context.Background(), email, ip, false)
		require.NoError(t, err)
	}
}

func TestAccountLockStatus_ThresholdBoundaries(t *testing.T) {
	ctx := context.Background()
	email := "target@crashify.io"

	t.Run("one below threshold", func(t *testing.T) {
		guard, _, _ := newTestGuard()
		failN(t, guard, email, "1.2.3.4", domain.MaxFailedAttempts-1)

		locked, _, err := guard.AccountLockStatus(ctx, email)
		require.NoError(t, err)
		assert.False(t, locked)
	})

	t.Run("exactly at threshold", func(t *testing.T) {
		guard, _, now := newTestGuard()
		failN(t, guard, email, "1.2.3.4", domain.MaxFailedAttempts)

		locked, unlockAt, err := guard.AccountLockStatus(ctx, email)
		require.NoError(t, err)
		assert.True(t, locked)
		assert.Equal(t, now.Add(domain.LockoutDuration), unlockAt)
	})

	t.Run("one above threshold", func(t *testing.T) {
		guard, _, _ := newTestGuard()
		failN(t, guard, email, "1.2.3.4", domain.MaxFailedAttempts+1)

		locked, _, err := guard.AccountLockStatus(ctx, email)
		require.NoError(t, err)
		assert.True(t, locked)
	})
}

func TestAccountLockStatus_LockExpires(t *testing.T) {
	ctx := context.Background()
	guard, _, now := newTestGuard()
	email := "target@crashify.io"

	failN(t, guard, email, "1.2.3.4", domain.MaxFailedAttempts)

	locked, _, err := guard.AccountLockStatus(ctx, email)
	require.NoError(t, err)
	assert.True(t, locked)

	*now = now.Add(domain.LockoutDuration)

	locked, _, err = guard.AccountLockStatus(ctx, email)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRecordAttempt_SuccessResetsEmailNotIP(t *testing.T) {
	ctx := context.Background()
	guard, repo, _ := newTestGuard()
	email := "target@crashify.io"
	ip := "1.2.3.4"

	failN(t, guard, email, ip, 3)

	count, err := guard.RecordAttempt(ctx, email, ip, true)
	require.NoError(t, err)
	assert.Zero(t, count)

	emailRec, err := repo.Get(ctx, domain.AttemptKindEmail, email)
	require.NoError(t, err)
	assert.Nil(t, emailRec)

	ipRec, err := repo.Get(ctx, domain.AttemptKindIP, ip)
	require.NoError(t, err)
	require.NotNil(t, ipRec)
	assert.Equal(t, 3, ipRec.FailedCount)
}

func TestIsIPBlocked(t *testing.T) {
	ctx := context.Background()
	guard, _, _ := newTestGuard()
	ip := "1.2.3.4"

	// Distributed attack: one source, many accounts.
	for i := 0; i < domain.MaxFailedAttemptsPerIP-1; i++ {
		_, err := guard.RecordAttempt(ctx, "victim@crashify.io", ip, false)
		require.NoError(t, err)
	}

	blocked, err := guard.IsIPBlocked(ctx, ip)
	require.NoError(t, err)
	assert.False(t, blocked)

	_, err = guard.RecordAttempt(ctx, "another@crashify.io", ip, false)
	require.NoError(t, err)

	blocked, err = guard.IsIPBlocked(ctx, ip)
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestIsIPBlocked_EmptyIP(t *testing.T) {
	guard, _, _ := newTestGuard()

	blocked, err := guard.IsIPBlocked(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestProgressiveDelay_Curve(t *testing.T) {
	ctx := context.Background()
	email := "target@crashify.io"

	tests := []struct {
		failures int
		want     time.Duration
	}{
		{0, 0},
		{1, 500 * time.Millisecond},
		{4, 2 * time.Second},
		{10, 5 * time.Second},  // capped
		{100, 5 * time.Second}, // still capped
	}

	for _, tt := range tests {
		guard, _, _ := newTestGuard()
		failN(t, guard, email, "1.2.3.4", tt.failures)

		delay, err := guard.ProgressiveDelay(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, tt.want, delay, "failures=%d", tt.failures)
	}
}

func TestProgressiveDelay_StaleFailuresIgnored(t *testing.T) {
	ctx := context.Background()
	guard, _, now := newTestGuard()
	email := "target@crashify.io"

	failN(t, guard, email, "1.2.3.4", 3)
	*now = now.Add(domain.AttemptWindow)

	delay, err := guard.ProgressiveDelay(ctx, email)
	require.NoError(t, err)
	assert.Zero(t, delay)
}

func TestRecordFailure_WindowRestartsCount(t *testing.T) {
	ctx := context.Background()
	guard, repo, now := newTestGuard()
	email := "target@crashify.io"

	failN(t, guard, email, "1.2.3.4", 4)
	*now = now.Add(domain.AttemptWindow + time.Minute)

	count, err := guard.RecordAttempt(ctx, email, "1.2.3.4", false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	rec, err := repo.Get(ctx, domain.AttemptKindEmail, email)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.FailedCount)
}
