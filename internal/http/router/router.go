// Package router arma el árbol de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/authcore/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/authcore/internal/http/controllers/health"
	httperrors "github.com/dropDatabas3/authcore/internal/http/errors"
	mw "github.com/dropDatabas3/authcore/internal/http/middlewares"
	"github.com/dropDatabas3/authcore/internal/rate"
	"github.com/dropDatabas3/authcore/internal/token"
)

// Deps contiene todo lo que el router necesita para armar las rutas.
type Deps struct {
	Auth   *authctrl.Controllers
	Health *healthctrl.HealthController

	Validator *token.Validator
	// Limiter aplica a los endpoints de auth públicos. Opcional.
	Limiter rate.Limiter
	// Metrics es el handler de /metrics. Opcional.
	Metrics http.Handler
}

// New arma el router completo.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Infra base para todo el árbol.
	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestID())
	r.Use(mw.WithSecurityHeaders())
	r.Use(mw.WithLogging())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Health y métricas: sin auth, sin rate limit.
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Endpoints públicos: rate limited, nunca cacheables.
			r.Group(func(r chi.Router) {
				r.Use(mw.WithRateLimit(deps.Limiter))
				r.Use(mw.WithNoStore())

				r.Post("/login", deps.Auth.Login.Login)
				r.Post("/register", deps.Auth.Register.Register)
				r.Post("/refresh", deps.Auth.Refresh.Refresh)
				r.Post("/logout", deps.Auth.Logout.Logout)
			})

			// Cambio de password: requiere token válido.
			r.Group(func(r chi.Router) {
				r.Use(mw.WithAuthentication(deps.Validator))
				r.Use(mw.RequireAuth())
				r.Use(mw.WithNoStore())

				r.Post("/password", deps.Auth.Password.Change)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.WithAuthentication(deps.Validator))
			r.Use(mw.RequireAuth())

			r.Get("/me", deps.Auth.Me.Me)
		})
	})

	return r
}
