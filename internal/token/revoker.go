package token

import (
	"context"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
	"github.com/dropDatabas3/authcore/internal/metrics"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

// Revoker agrupa las dos primitivas de invalidación: blacklist por jti
// (logout) y bump de versión por usuario (cambio de password).
//
// Ambas escrituras corren sobre context.WithoutCancel: si el request HTTP se
// cancela a mitad de camino, la revocación ya iniciada se completa igual.
// Una revocación a medio aplicar es insegura; una salteada es peor.
type Revoker struct {
	revocations *RevocationStore
	users       repository.UserRepository
}

// NewRevoker crea el revocador.
func NewRevoker(revocations *RevocationStore, users repository.UserRepository) *Revoker {
	return &Revoker{revocations: revocations, users: users}
}

// RevokeTokenIDs marca cada jti como revocado. Usado por logout con el par
// {accessJTI, refreshJTI}. Idempotente por id.
func (r *Revoker) RevokeTokenIDs(ctx context.Context, ids ...string) error {
	wctx := context.WithoutCancel(ctx)
	for _, jti := range ids {
		if err := r.revocations.MarkRevoked(wctx, jti); err != nil {
			logger.From(ctx).Error("mark revoked failed",
				logger.Component("token.revoker"), logger.TokenID(jti), logger.Err(err))
			return err
		}
		metrics.ObserveTokenRevoked()
	}
	return nil
}

// BumpUserVersion incrementa token_version del usuario en 1, invalidando todo
// token emitido antes del bump sin enumerarlos. El incremento es atómico en
// el store (ver UserRepository.BumpTokenVersion).
func (r *Revoker) BumpUserVersion(ctx context.Context, userID string) (int64, error) {
	v, err := r.users.BumpTokenVersion(context.WithoutCancel(ctx), userID)
	if err != nil {
		return 0, err
	}
	logger.From(ctx).Info("token version bumped",
		logger.Component("token.revoker"), logger.UserID(userID), logger.TokenVersion(v))
	return v, nil
}
