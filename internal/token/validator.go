package token

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/observability/logger"
)

// Errores de validación (además de los tipados del codec).
var (
	// ErrTokenRevoked cubre blacklist explícita Y versión vencida: para el
	// caller externo son lo mismo, pero internamente se loguean distinto.
	ErrTokenRevoked = errors.New("token revoked")

	// ErrUserNotFound: el sub del token ya no existe.
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable: no se pudo consultar revocación o versión.
	// Fail closed — el token se rechaza, no se acepta.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Reason etiqueta el resultado de una validación para métricas y logs.
type Reason string

const (
	ReasonValid            Reason = "valid"
	ReasonMalformed        Reason = "malformed"
	ReasonBadSignature     Reason = "bad_signature"
	ReasonExpired          Reason = "expired"
	ReasonRevoked          Reason = "revoked"
	ReasonUserNotFound     Reason = "user_not_found"
	ReasonStoreUnavailable Reason = "store_unavailable"
)

// ReasonOf mapea un error de validación a su Reason. nil es ReasonValid.
func ReasonOf(err error) Reason {
	switch {
	case err == nil:
		return ReasonValid
	case errors.Is(err, jwtx.ErrMalformedToken):
		return ReasonMalformed
	case errors.Is(err, jwtx.ErrBadSignature):
		return ReasonBadSignature
	case errors.Is(err, jwtx.ErrTokenExpired):
		return ReasonExpired
	case errors.Is(err, ErrTokenRevoked):
		return ReasonRevoked
	case errors.Is(err, ErrUserNotFound):
		return ReasonUserNotFound
	default:
		return ReasonStoreUnavailable
	}
}

// Validator compone decode + blacklist + versión en una sola decisión.
//
// Orden de los pasos (corta en el primer fallo):
//  1. Decode: firma/estructura/expiración — local y barato, corre antes de
//     tocar cualquier store para que tokens basura no generen I/O.
//  2. Blacklist por jti (cacheado).
//  3. Usuario existe.
//  4. claims.token_version >= user.token_version — va último porque es el
//     único paso que no puede evitar el round-trip al store de usuarios.
type Validator struct {
	codec       *jwtx.Codec
	revocations *RevocationStore
	users       repository.UserRepository
}

// NewValidator crea el validador.
func NewValidator(codec *jwtx.Codec, revocations *RevocationStore, users repository.UserRepository) *Validator {
	return &Validator{codec: codec, revocations: revocations, users: users}
}

// Validate decide pass/fail para un token string y retorna las claims si pasa.
func (v *Validator) Validate(ctx context.Context, tokenString string) (*jwtx.Claims, error) {
	cl, err := v.codec.Decode(tokenString)
	if err != nil {
		return nil, err
	}

	log := logger.From(ctx).With(
		logger.Component("token.validator"),
		logger.TokenID(cl.JTI()),
		logger.UserID(cl.UserID()),
	)

	revoked, err := v.revocations.IsRevoked(ctx, cl.JTI())
	if err != nil {
		log.Error("revocation check unavailable", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if revoked {
		log.Debug("token rejected: blacklisted jti")
		return nil, ErrTokenRevoked
	}

	user, err := v.users.GetByID(ctx, cl.UserID())
	if err != nil {
		if repository.IsNotFound(err) {
			log.Debug("token rejected: user not found")
			return nil, ErrUserNotFound
		}
		log.Error("user lookup unavailable", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if cl.TokenVersion < user.TokenVersion {
		log.Debug("token rejected: stale token_version",
			logger.TokenVersion(cl.TokenVersion),
			logger.Any("current_version", user.TokenVersion))
		return nil, ErrTokenRevoked
	}

	return cl, nil
}
