package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/authcore/internal/http/errors"
	"github.com/dropDatabas3/authcore/internal/metrics"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
	"github.com/dropDatabas3/authcore/internal/token"
)

const bearerPrefix = "Bearer "

// WithAuthentication es el authenticator por-request:
//
//   - Sin header Authorization: pasa como anónimo. Que una ruta admita o no
//     acceso anónimo lo decide RequireAuth (o el handler), no esta capa.
//   - Header con esquema distinto de Bearer: error de formato del request
//     (400), no de autenticación.
//   - Bearer presente: validación completa; si pasa, materializa el Principal
//     en el contexto; si no, corta con el motivo mapeado a HTTP.
func WithAuthentication(v *token.Validator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(raw, bearerPrefix) {
				httperrors.WriteError(w, httperrors.ErrInvalidAuthHeader)
				return
			}
			tokenString := strings.TrimSpace(raw[len(bearerPrefix):])
			if tokenString == "" {
				httperrors.WriteError(w, httperrors.ErrInvalidAuthHeader)
				return
			}

			cl, err := v.Validate(r.Context(), tokenString)
			metrics.ObserveTokenValidation(string(token.ReasonOf(err)))
			if err != nil {
				logger.From(r.Context()).Debug("request token rejected",
					logger.Component("authn"), logger.Err(err))
				writeValidationError(w, err)
				return
			}

			p := PrincipalFromClaims(cl)
			ctx := WithPrincipal(r.Context(), p)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(p.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth exige un Principal en el contexto (puesto por
// WithAuthentication). Para rutas que no admiten acceso anónimo.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetPrincipal(r.Context()); !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="authcore"`)
				httperrors.WriteError(w, httperrors.ErrUnauthorized.WithDetail("token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeValidationError mapea el error del validador/codec al AppError HTTP.
// Todas las fallas de autenticación son 401 salvo StoreUnavailable (500,
// fail closed: rechazar, no aceptar).
func writeValidationError(w http.ResponseWriter, err error) {
	switch token.ReasonOf(err) {
	case token.ReasonExpired:
		httperrors.WriteError(w, httperrors.ErrTokenExpired)
	case token.ReasonRevoked:
		httperrors.WriteError(w, httperrors.ErrTokenRevoked)
	case token.ReasonMalformed, token.ReasonBadSignature, token.ReasonUserNotFound:
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)
	default:
		httperrors.WriteError(w, httperrors.ErrStoreUnavailable)
	}
}
