package token

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
)

func TestBumpUserVersionConcurrent(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := f.revoker.BumpUserVersion(ctx, u.ID)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	// N bumps concurrentes suman exactamente N, nunca menos.
	got, err := f.store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, int64(n), got.TokenVersion)
}

func TestRevokeTokenIDsSurvivesCanceledContext(t *testing.T) {
	f := newFixture(t)
	u := f.createUser(t)
	pair := f.issueFor(t, u)

	cl, err := f.validator.Validate(context.Background(), pair.AccessToken)
	require.NoError(t, err)

	// El request se cancela, la revocación ya iniciada se completa igual.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, f.revoker.RevokeTokenIDs(ctx, cl.JTI()))

	_, err = f.validator.Validate(context.Background(), pair.AccessToken)
	require.ErrorIs(t, err, ErrTokenRevoked)
}

func TestBumpUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.revoker.BumpUserVersion(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestJanitorSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.MarkRevoked(ctx, "old-jti"))
	time.Sleep(10 * time.Millisecond)
	cutoffSafe := time.Now()
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, f.store.MarkRevoked(ctx, "new-jti"))

	n, err := f.store.DeleteCreatedBefore(ctx, cutoffSafe)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	revoked, err := f.store.IsRevoked(ctx, "old-jti")
	require.NoError(t, err)
	require.False(t, revoked)

	revoked, err = f.store.IsRevoked(ctx, "new-jti")
	require.NoError(t, err)
	require.True(t, revoked)
}
