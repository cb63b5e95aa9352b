package repository

import (
	"context"
	"time"
)

// RevokedToken marca un jti concreto como inutilizable, sin importar cuánta
// validez le quede al token. Append-only: nunca se "des-revoca" un id
// (el GC por expiración del token es la única baja válida).
type RevokedToken struct {
	JTI       string
	CreatedAt time.Time
}

// RevokedTokenRepository define el store autoritativo de revocaciones.
//
// Las implementaciones deben traducir fallas de conectividad a ErrUnavailable
// para que la capa de validación pueda fallar cerrado.
type RevokedTokenRepository interface {
	// MarkRevoked inserta un jti revocado. Idempotente: revocar un id ya
	// revocado es un no-op exitoso.
	MarkRevoked(ctx context.Context, jti string) error

	// IsRevoked verifica existencia del jti.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// DeleteCreatedBefore elimina registros creados antes del corte.
	// Solo es seguro con un corte anterior al refresh TTL máximo.
	DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
