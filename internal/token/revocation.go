// Package token implementa el ciclo de vida de validación y revocación:
// blacklist explícita por jti (logout) y contador de versión por usuario
// (invalidación masiva).
package token

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/authcore/internal/cache"
	"github.com/dropDatabas3/authcore/internal/domain/repository"
	"github.com/dropDatabas3/authcore/internal/metrics"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

const revokedKeyPrefix = "revoked:"

// RevocationStore resuelve "¿está revocado este jti?" con cache-aside sobre el
// store autoritativo.
//
// Invariantes:
//   - MarkRevoked pisa cualquier negativo cacheado ANTES de retornar: un
//     logout es visible para la siguiente validación en cualquier thread, sin
//     ventana de consistencia eventual.
//   - Si el store autoritativo no responde, IsRevoked falla cerrado: retorna
//     error y el caller rechaza, nunca asume "no revocado".
type RevocationStore struct {
	repo     repository.RevokedTokenRepository
	cache    cache.Client
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewRevocationStore crea el store de revocaciones.
// cacheTTL acota cuánto vive una respuesta cacheada (positiva o negativa);
// con el disciplinado invalidate-on-write el TTL es solo un techo de higiene.
func NewRevocationStore(repo repository.RevokedTokenRepository, c cache.Client, cacheTTL time.Duration) *RevocationStore {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &RevocationStore{repo: repo, cache: c, cacheTTL: cacheTTL}
}

// IsRevoked consulta el cache primero; en miss va al store autoritativo
// (colapsando misses concurrentes del mismo jti vía singleflight) y puebla
// el cache con el resultado.
func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	key := revokedKeyPrefix + jti

	if v, err := s.cache.Get(ctx, key); err == nil {
		metrics.ObserveRevocationCache("hit")
		return v == "1", nil
	} else if cache.IsNotFound(err) {
		metrics.ObserveRevocationCache("miss")
	} else {
		// Cache caído no es fatal: el store autoritativo decide.
		metrics.ObserveRevocationCache("error")
		logger.From(ctx).Warn("revocation cache read failed",
			logger.Component("token.revocation"), logger.TokenID(jti), logger.Err(err))
	}

	v, err, _ := s.group.Do(jti, func() (any, error) {
		revoked, err := s.repo.IsRevoked(ctx, jti)
		if err != nil {
			return false, err
		}
		val := "0"
		if revoked {
			val = "1"
		}
		// Best effort: si el Set falla, el próximo miss vuelve al store.
		if err := s.cache.Set(ctx, key, val, s.cacheTTL); err != nil {
			logger.From(ctx).Warn("revocation cache populate failed",
				logger.Component("token.revocation"), logger.TokenID(jti), logger.Err(err))
		}
		return revoked, nil
	})
	if err != nil {
		// Fail closed: el caller debe rechazar el token.
		return false, fmt.Errorf("revocation lookup: %w", repository.ErrUnavailable)
	}
	return v.(bool), nil
}

// MarkRevoked inserta el jti en el store autoritativo (idempotente) y pisa el
// valor cacheado. Si no se puede garantizar que el negativo cacheado quedó
// invalidado, retorna error: una revocación a medias es peor que una fallida.
func (s *RevocationStore) MarkRevoked(ctx context.Context, jti string) error {
	if err := s.repo.MarkRevoked(ctx, jti); err != nil {
		return err
	}

	key := revokedKeyPrefix + jti
	if err := s.cache.Set(ctx, key, "1", s.cacheTTL); err != nil {
		if derr := s.cache.Delete(ctx, key); derr != nil {
			return fmt.Errorf("revocation cache invalidate %s: %w", jti, derr)
		}
	}
	return nil
}
