package middlewares

import (
	"context"

	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
)

type ctxKey string

const (
	// ctxPrincipalKey guarda la identidad del caller autenticado
	ctxPrincipalKey ctxKey = "principal"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// DefaultRole es el rol asignado cuando el token no trae claim de rol.
const DefaultRole = "guest"

// Principal es la identidad del caller, materializada por el authenticator a
// partir de un token validado. Contexto explícito, no estado por-thread:
// viaja en el context.Context del request.
type Principal struct {
	UserID string
	Role   string
	Email  string
	Claims *jwtx.Claims
}

// PrincipalFromClaims arma el Principal desde claims validadas, aplicando el
// fallback de rol.
func PrincipalFromClaims(cl *jwtx.Claims) Principal {
	role := cl.Role
	if role == "" {
		role = DefaultRole
	}
	return Principal{
		UserID: cl.UserID(),
		Role:   role,
		Email:  cl.Email,
		Claims: cl,
	}
}

// WithPrincipal inyecta la identidad en el contexto.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey, p)
}

// GetPrincipal obtiene la identidad del contexto.
// ok es false si el request no presentó token (acceso anónimo).
func GetPrincipal(ctx context.Context) (Principal, bool) {
	if v := ctx.Value(ctxPrincipalKey); v != nil {
		if p, ok := v.(Principal); ok {
			return p, true
		}
	}
	return Principal{}, false
}

// setRequestID inyecta el request ID en el contexto (interno).
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
