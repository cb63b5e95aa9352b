package auth

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
	httperrors "github.com/dropDatabas3/authcore/internal/http/errors"
	svc "github.com/dropDatabas3/authcore/internal/http/services/auth"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/token"
)

// writeTokenError mapea errores de validación de token (codec + validator) al
// AppError HTTP. Compartido por refresh y logout, que reportan la causa tal
// cual la devuelve el validador.
func writeTokenError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, jwtx.ErrTokenExpired):
		httperrors.WriteError(w, httperrors.ErrTokenExpired)

	case errors.Is(err, token.ErrTokenRevoked):
		httperrors.WriteError(w, httperrors.ErrTokenRevoked)

	case errors.Is(err, jwtx.ErrMalformedToken),
		errors.Is(err, jwtx.ErrBadSignature),
		errors.Is(err, token.ErrUserNotFound):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)

	case errors.Is(err, token.ErrStoreUnavailable):
		httperrors.WriteError(w, httperrors.ErrStoreUnavailable)

	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)

	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}

// writeStoreOrInternal distingue "el store no responde" (fail closed, con su
// propio código de error) de cualquier otra falla interna.
func writeStoreOrInternal(w http.ResponseWriter, err error) {
	if repository.IsUnavailable(err) {
		httperrors.WriteError(w, httperrors.ErrStoreUnavailable)
		return
	}
	httperrors.WriteError(w, httperrors.ErrInternalServerError)
}

// noStore marca la respuesta como no cacheable. Para todo endpoint que
// devuelve o recibe tokens.
func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
