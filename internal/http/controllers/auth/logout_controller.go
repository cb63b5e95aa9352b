package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	"github.com/dropDatabas3/authcore/internal/http/helpers"
	svc "github.com/dropDatabas3/authcore/internal/http/services/auth"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

// LogoutController maneja el endpoint de logout.
type LogoutController struct {
	service svc.LogoutService
}

// NewLogoutController crea un nuevo controller de logout.
func NewLogoutController(service svc.LogoutService) *LogoutController {
	return &LogoutController{service: service}
}

// Logout maneja POST /v1/auth/logout
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	var req dto.LogoutRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if err := c.service.Logout(ctx, req); err != nil {
		log.Debug("logout failed", logger.Err(err))
		// ErrTokenAlreadyInvalidated viene joined con la causa del validador,
		// así que el mapper reporta la causa concreta (expirado, revocado, ...).
		writeTokenError(w, err)
		return
	}

	noStore(w)
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
