// Package health contiene el service para health checks.
package health

import (
	"context"
	"fmt"
	"os"
	"time"

	dto "github.com/dropDatabas3/authcore/internal/http/dto/health"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	// Codec firma y verifica un token de prueba: si esto falla, el servicio
	// no puede emitir ni validar nada.
	Codec *jwtx.Codec

	// StoreCheck hace ping al store autoritativo (crítico: sin él la
	// validación falla cerrada).
	StoreCheck func(ctx context.Context) error

	// CacheCheck hace ping al cache (no crítico: degradado, no caído).
	CacheCheck func(ctx context.Context) error
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	response := dto.HealthResponse{
		Components: make(map[string]dto.HealthStatus),
		Timestamp:  time.Now().UTC(),
	}
	if v := os.Getenv("SERVICE_VERSION"); v != "" {
		response.Version = v
	}
	if commit := os.Getenv("SERVICE_COMMIT"); commit != "" {
		response.Commit = commit
	}

	hasErrors := false
	hasCriticalErrors := false

	// 1) Keystore (crítico): round-trip firmar + verificar.
	if s.deps.Codec != nil {
		if err := s.checkKeystore(); err != nil {
			response.Components["keystore"] = dto.HealthStatus{Status: "error", Message: err.Error()}
			hasCriticalErrors = true
			log.Error("keystore check failed", logger.Err(err))
		} else {
			response.Components["keystore"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["keystore"] = dto.HealthStatus{Status: "error", Message: "codec not initialized"}
		hasCriticalErrors = true
	}

	// 2) Store autoritativo (crítico).
	if s.deps.StoreCheck != nil {
		if err := s.deps.StoreCheck(ctx); err != nil {
			response.Components["store"] = dto.HealthStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
			hasCriticalErrors = true
			log.Error("store unavailable", logger.Err(err))
		} else {
			response.Components["store"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["store"] = dto.HealthStatus{Status: "error", Message: "store not initialized"}
		hasCriticalErrors = true
	}

	// 3) Cache (no crítico: los misses van al store igual).
	if s.deps.CacheCheck != nil {
		if err := s.deps.CacheCheck(ctx); err != nil {
			response.Components["cache"] = dto.HealthStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
			hasErrors = true
			log.Warn("cache unavailable", logger.Err(err))
		} else {
			response.Components["cache"] = dto.HealthStatus{Status: "ok"}
		}
	} else {
		response.Components["cache"] = dto.HealthStatus{Status: "disabled"}
	}

	switch {
	case hasCriticalErrors:
		response.Status = "unavailable"
	case hasErrors:
		response.Status = "degraded"
	default:
		response.Status = "ready"
	}

	return response
}

func (s *healthService) checkKeystore() error {
	cl := jwtx.Claims{Use: jwtx.UseAccess}
	cl.Subject = "selfcheck"

	signed, _, err := s.deps.Codec.Encode(cl, time.Minute)
	if err != nil {
		return fmt.Errorf("sign failed: %w", err)
	}
	if _, err := s.deps.Codec.Decode(signed); err != nil {
		return fmt.Errorf("verify failed: %w", err)
	}
	return nil
}
