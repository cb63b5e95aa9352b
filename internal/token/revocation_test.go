package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/authcore/internal/cache"
	"github.com/dropDatabas3/authcore/internal/domain/repository"
	"github.com/dropDatabas3/authcore/internal/store/memory"
)

func TestRevocationCacheAside(t *testing.T) {
	repo := &countingRepo{}
	s := NewRevocationStore(repo, cache.NewMemory("test", time.Minute), time.Minute)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
	require.Equal(t, 1, repo.calls)

	// Segunda consulta: responde el cache, no el store.
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
	require.Equal(t, 1, repo.calls)
}

func TestMarkRevokedOverwritesCachedNegative(t *testing.T) {
	store := memory.New()
	s := NewRevocationStore(store, cache.NewMemory("test", time.Minute), time.Minute)
	ctx := context.Background()

	// Cachear el negativo primero.
	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, s.MarkRevoked(ctx, "jti-1"))

	// El write pisa el negativo cacheado: sin ventana de inconsistencia.
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestMarkRevokedIdempotent(t *testing.T) {
	store := memory.New()
	s := NewRevocationStore(store, cache.NewMemory("test", time.Minute), time.Minute)
	ctx := context.Background()

	require.NoError(t, s.MarkRevoked(ctx, "jti-1"))
	require.NoError(t, s.MarkRevoked(ctx, "jti-1"))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestIsRevokedFailsClosedOnRepoOutage(t *testing.T) {
	store := memory.New()
	store.FailWith = errors.New("connection refused")
	s := NewRevocationStore(store, cache.NewMemory("test", time.Minute), time.Minute)

	_, err := s.IsRevoked(context.Background(), "jti-1")
	require.ErrorIs(t, err, repository.ErrUnavailable)
}

// brokenCache falla en todo: simula redis caído.
type brokenCache struct{ err error }

func (b brokenCache) Get(context.Context, string) (string, error)               { return "", b.err }
func (b brokenCache) Set(context.Context, string, string, time.Duration) error { return b.err }
func (b brokenCache) Delete(context.Context, string) error                     { return b.err }
func (b brokenCache) Ping(context.Context) error                               { return b.err }
func (b brokenCache) Close() error                                             { return nil }

func TestIsRevokedSurvivesCacheOutage(t *testing.T) {
	store := memory.New()
	s := NewRevocationStore(store, brokenCache{err: errors.New("redis down")}, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.MarkRevoked(ctx, "jti-1"))

	// Con el cache caído decide el store autoritativo.
	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestMarkRevokedFailsIfCacheCannotInvalidate(t *testing.T) {
	store := memory.New()
	s := NewRevocationStore(store, brokenCache{err: errors.New("redis down")}, time.Minute)

	// El insert autoritativo funciona pero el cache no se puede pisar ni
	// borrar: la revocación reporta error en vez de quedar a medias.
	err := s.MarkRevoked(context.Background(), "jti-1")
	require.Error(t, err)
}
