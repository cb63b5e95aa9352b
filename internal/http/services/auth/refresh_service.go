package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/metrics"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
	"github.com/dropDatabas3/authcore/internal/token"
)

// RefreshService define la operación de refresh de access token.
type RefreshService interface {
	Refresh(ctx context.Context, in dto.RefreshRequest) (*jwtx.Token, error)
}

// RefreshDeps contiene las dependencias del refresh service.
type RefreshDeps struct {
	Users     repository.UserRepository
	Issuer    *jwtx.Issuer
	Validator *token.Validator
}

type refreshService struct {
	deps RefreshDeps
}

// NewRefreshService crea un nuevo servicio de refresh.
func NewRefreshService(deps RefreshDeps) RefreshService {
	return &refreshService{deps: deps}
}

// ErrNotRefreshToken: el token presentado no es un refresh token.
var ErrNotRefreshToken = fmt.Errorf("not a refresh token")

func (s *refreshService) Refresh(ctx context.Context, in dto.RefreshRequest) (*jwtx.Token, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.refresh"),
		logger.Op("Refresh"),
	)

	in.RefreshToken = strings.TrimSpace(in.RefreshToken)
	if in.RefreshToken == "" {
		return nil, ErrMissingFields
	}

	// Validación completa del refresh token: firma, expiración, blacklist
	// y versión. Lo que reporte el validador sube tal cual.
	cl, err := s.deps.Validator.Validate(ctx, in.RefreshToken)
	if err != nil {
		log.Debug("refresh token rejected", logger.Err(err))
		return nil, err
	}

	if cl.Use != jwtx.UseRefresh {
		log.Debug("token is not a refresh token", logger.TokenID(cl.JTI()))
		return nil, ErrNotRefreshToken
	}

	// Re-resolver al usuario: un cambio de rol o de versión posterior a la
	// emisión del refresh se refleja en el access nuevo.
	user, err := s.deps.Users.GetByID(ctx, cl.UserID())
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, token.ErrUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	pair, err := s.deps.Issuer.ReissueAccess(identityFor(user), in.RefreshToken)
	if err != nil {
		log.Error("failed to reissue access token", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}
	metrics.ObserveTokenIssued("access")

	log.Info("access token reissued", logger.UserID(user.ID))
	return pair, nil
}
