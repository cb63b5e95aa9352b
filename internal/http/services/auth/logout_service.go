package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
	"github.com/dropDatabas3/authcore/internal/token"
)

// LogoutService define la operación de logout.
type LogoutService interface {
	Logout(ctx context.Context, in dto.LogoutRequest) error
}

// LogoutDeps contiene las dependencias del logout service.
type LogoutDeps struct {
	Validator *token.Validator
	Revoker   *token.Revoker
}

type logoutService struct {
	deps LogoutDeps
}

// NewLogoutService crea un nuevo servicio de logout.
func NewLogoutService(deps LogoutDeps) LogoutService {
	return &logoutService{deps: deps}
}

// ErrTokenAlreadyInvalidated: logout con un token que ya no es válido.
// Comportamiento heredado deliberadamente: NO es idempotente — hacer logout
// con un token expirado o ya revocado es un error, no un no-op.
var ErrTokenAlreadyInvalidated = fmt.Errorf("token already invalidated")

func (s *logoutService) Logout(ctx context.Context, in dto.LogoutRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.logout"),
		logger.Op("Logout"),
	)

	in.AccessToken = strings.TrimSpace(in.AccessToken)
	in.RefreshToken = strings.TrimSpace(in.RefreshToken)
	if in.AccessToken == "" || in.RefreshToken == "" {
		return ErrMissingFields
	}

	// Ambos tokens deben pasar la validación completa, cada uno por su cuenta.
	// El error del validador (Expired, Revoked, ...) sube tal cual para que el
	// cliente sepa por qué su logout no aplicó.
	accessClaims, err := s.deps.Validator.Validate(ctx, in.AccessToken)
	if err != nil {
		log.Debug("access token already invalid", logger.Err(err))
		return errors.Join(ErrTokenAlreadyInvalidated, err)
	}
	refreshClaims, err := s.deps.Validator.Validate(ctx, in.RefreshToken)
	if err != nil {
		log.Debug("refresh token already invalid", logger.Err(err))
		return errors.Join(ErrTokenAlreadyInvalidated, err)
	}

	if err := s.deps.Revoker.RevokeTokenIDs(ctx, accessClaims.JTI(), refreshClaims.JTI()); err != nil {
		log.Error("revocation failed", logger.Err(err))
		return err
	}

	log.Info("logout ok", logger.UserID(accessClaims.UserID()))
	return nil
}
