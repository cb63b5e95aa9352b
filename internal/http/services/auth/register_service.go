package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
	"github.com/dropDatabas3/authcore/internal/security/password"
)

// RegisterService define la operación de alta de usuario.
type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*repository.User, error)
}

// RegisterDeps contiene las dependencias del register service.
type RegisterDeps struct {
	Users repository.UserRepository
}

type registerService struct {
	deps RegisterDeps
}

// NewRegisterService crea un nuevo servicio de registro.
func NewRegisterService(deps RegisterDeps) RegisterService {
	return &registerService{deps: deps}
}

// Errores de registro
var (
	ErrEmailTaken   = fmt.Errorf("email already registered")
	ErrWeakPassword = fmt.Errorf("password too short")
	ErrInvalidEmail = fmt.Errorf("invalid email")
)

const minPasswordLen = 8

// defaultRole es el rol que recibe todo usuario nuevo.
const defaultRole = "user"

func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !strings.Contains(in.Email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := password.Hash(password.Default, in.Password)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return nil, err
	}

	user, err := s.deps.Users.Create(ctx, repository.CreateUserInput{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         defaultRole,
		GivenName:    strings.TrimSpace(in.GivenName),
		FamilyName:   strings.TrimSpace(in.FamilyName),
		Phone:        strings.TrimSpace(in.Phone),
	})
	if err != nil {
		if repository.IsConflict(err) {
			log.Debug("email already registered")
			return nil, ErrEmailTaken
		}
		log.Error("user create failed", logger.Err(err))
		return nil, err
	}

	log.Info("user registered", logger.UserID(user.ID))
	return user, nil
}
