package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/authcore/internal/http/errors"
	"github.com/dropDatabas3/authcore/internal/http/helpers"
	"github.com/dropDatabas3/authcore/internal/http/middlewares"
	svc "github.com/dropDatabas3/authcore/internal/http/services/auth"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
	"github.com/dropDatabas3/authcore/internal/token"
)

// PasswordController maneja el cambio de password del usuario autenticado.
type PasswordController struct {
	service svc.PasswordService
}

// NewPasswordController crea un nuevo controller de cambio de password.
func NewPasswordController(service svc.PasswordService) *PasswordController {
	return &PasswordController{service: service}
}

// Change maneja POST /v1/auth/password (ruta protegida).
// El cambio bumpea token_version: todos los tokens del usuario emitidos antes
// quedan inválidos, incluido el que autenticó este request.
func (c *PasswordController) Change(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PasswordController.Change"))

	p, ok := middlewares.GetPrincipal(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.ChangePasswordRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.ChangePassword(ctx, p.UserID, req); err != nil {
		log.Debug("password change failed", logger.Err(err))
		writePasswordError(w, err)
		return
	}

	noStore(w)
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

func writePasswordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("current_password y new_password son obligatorios"))

	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("el password debe tener al menos 8 caracteres"))

	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials.WithDetail("el password actual no coincide"))

	case errors.Is(err, token.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)

	default:
		writeStoreOrInternal(w, err)
	}
}
