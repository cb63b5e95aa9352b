package auth

import (
	"net/http"

	dto "github.com/dropDatabas3/authcore/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/authcore/internal/http/errors"
	"github.com/dropDatabas3/authcore/internal/http/helpers"
	mw "github.com/dropDatabas3/authcore/internal/http/middlewares"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

// MeController handles GET /v1/me.
type MeController struct{}

// NewMeController creates a new me controller.
func NewMeController() *MeController {
	return &MeController{}
}

// Me returns the identity of the authenticated caller, straight from the
// validated token claims. No store round-trip.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("MeController.Me"))

	p, ok := mw.GetPrincipal(ctx)
	if !ok || p.Claims == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	cl := p.Claims
	helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{
		ID:         p.UserID,
		Email:      cl.Email,
		Role:       p.Role,
		GivenName:  cl.GivenName,
		FamilyName: cl.FamilyName,
		Phone:      cl.Phone,
	})

	log.Debug("claims returned")
}
