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
	"github.com/dropDatabas3/authcore/internal/security/password"
)

// LoginService define la operación de login con credenciales.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*jwtx.Token, error)
}

// LoginDeps contiene las dependencias para el login service.
type LoginDeps struct {
	Users  repository.UserRepository
	Issuer *jwtx.Issuer
}

type loginService struct {
	deps LoginDeps
}

// NewLoginService crea un nuevo servicio de login.
func NewLoginService(deps LoginDeps) LoginService {
	return &loginService{deps: deps}
}

// Errores de login
var (
	ErrMissingFields = fmt.Errorf("missing required fields")
	// ErrInvalidCredentials cubre password incorrecto Y usuario inexistente:
	// indistinguibles hacia afuera para no permitir enumeración de usuarios.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrTokenIssueFailed   = fmt.Errorf("failed to issue token")
)

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*jwtx.Token, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	// Normalización
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.deps.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			// Internamente distinto de "password incorrecto" (solo en logs).
			log.Debug("login failed: user not found")
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	log = log.With(logger.UserID(user.ID))

	if !password.Verify(in.Password, user.PasswordHash) {
		log.Debug("login failed: password check failed")
		return nil, ErrInvalidCredentials
	}

	pair, err := s.deps.Issuer.IssuePair(identityFor(user))
	if err != nil {
		log.Error("failed to issue token pair", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}
	metrics.ObserveTokenIssued("access")
	metrics.ObserveTokenIssued("refresh")

	log.Info("login ok")
	return pair, nil
}
