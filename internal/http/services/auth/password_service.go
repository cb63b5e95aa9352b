package auth

import (
	"context"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
	"github.com/dropDatabas3/authcore/internal/security/password"
	"github.com/dropDatabas3/authcore/internal/token"
)

// PasswordService define el cambio de password (y con él, la invalidación
// masiva de tokens del usuario).
type PasswordService interface {
	ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error
}

// PasswordDeps contiene las dependencias del password service.
type PasswordDeps struct {
	Users   repository.UserRepository
	Revoker *token.Revoker
}

type passwordService struct {
	deps PasswordDeps
}

// NewPasswordService crea un nuevo servicio de cambio de password.
func NewPasswordService(deps PasswordDeps) PasswordService {
	return &passwordService{deps: deps}
}

func (s *passwordService) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.password"),
		logger.Op("ChangePassword"),
		logger.UserID(userID),
	)

	if in.CurrentPassword == "" || in.NewPassword == "" {
		return ErrMissingFields
	}
	if len(in.NewPassword) < minPasswordLen {
		return ErrWeakPassword
	}

	user, err := s.deps.Users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return token.ErrUserNotFound
		}
		log.Error("user lookup failed", logger.Err(err))
		return err
	}

	if !password.Verify(in.CurrentPassword, user.PasswordHash) {
		log.Debug("current password check failed")
		return ErrInvalidCredentials
	}

	hash, err := password.Hash(password.Default, in.NewPassword)
	if err != nil {
		log.Error("password hash failed", logger.Err(err))
		return err
	}

	if err := s.deps.Users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		log.Error("password update failed", logger.Err(err))
		return err
	}

	// El bump invalida TODO token emitido antes del cambio, sin enumerarlos.
	if _, err := s.deps.Revoker.BumpUserVersion(ctx, userID); err != nil {
		log.Error("token version bump failed", logger.Err(err))
		return err
	}

	log.Info("password changed, tokens invalidated")
	return nil
}
