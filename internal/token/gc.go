package token

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

// Janitor purga periódicamente jtis revocados más viejos que la retención.
// Un jti revocado solo importa mientras algún token que lo porte pueda seguir
// sin expirar; la retención debe superar el TTL del refresh token.
type Janitor struct {
	repo      repository.RevokedTokenRepository
	retention time.Duration
	interval  time.Duration
}

// NewJanitor crea el recolector.
func NewJanitor(repo repository.RevokedTokenRepository, retention, interval time.Duration) *Janitor {
	if retention <= 0 {
		retention = 14 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{repo: repo, retention: retention, interval: interval}
}

// Run corre el loop de purga hasta que el contexto se cancele. Pensado para
// correr en su propia goroutine.
func (j *Janitor) Run(ctx context.Context) {
	log := logger.From(ctx).With(logger.Component("token.janitor"))
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx, log)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context, log *zap.Logger) {
	cutoff := time.Now().UTC().Add(-j.retention)
	n, err := j.repo.DeleteCreatedBefore(ctx, cutoff)
	if err != nil {
		log.Warn("revoked token sweep failed", logger.Err(err))
		return
	}
	if n > 0 {
		log.Info("revoked tokens purged", logger.Any("deleted", n))
	}
}
