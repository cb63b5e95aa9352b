package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Errores tipados de decodificación. Decode nunca mezcla causas: un token
// puede fallar por estructura, por firma o por expiración, y cada caso se
// distingue para logs y para el mapping HTTP.
var (
	ErrMalformedToken = errors.New("jwt: malformed token")
	ErrBadSignature   = errors.New("jwt: bad signature")
	ErrTokenExpired   = errors.New("jwt: token expired")
)

// Codec firma y verifica tokens EdDSA auto-contenidos.
//
// Encode/Decode son puros sobre (claims, keys, reloj): acá no hay chequeo de
// revocación ni de versión — eso es trabajo del Validator.
type Codec struct {
	keys *KeyPair
	iss  string
	now  func() time.Time
}

// NewCodec crea un codec con el par de claves y el issuer dado.
func NewCodec(keys *KeyPair, iss string) *Codec {
	return &Codec{keys: keys, iss: iss, now: time.Now}
}

// WithClock reemplaza la fuente de tiempo (testing).
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Encode firma las claims con TTL dado. Genera un jti fresco en CADA llamada:
// dos tokens del mismo login (access y refresh) siempre tienen jtis distintos.
// Retorna el string firmado y las claims completadas (jti/iat/exp).
func (c *Codec) Encode(cl Claims, ttl time.Duration) (string, *Claims, error) {
	now := c.now().UTC().Truncate(time.Second)

	cl.ID = uuid.NewString()
	cl.Issuer = c.iss
	cl.IssuedAt = jwtv5.NewNumericDate(now)
	cl.ExpiresAt = jwtv5.NewNumericDate(now.Add(ttl))

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodEdDSA, &cl)
	tk.Header["typ"] = "JWT"

	signed, err := tk.SignedString(c.keys.Priv)
	if err != nil {
		return "", nil, err
	}
	return signed, &cl, nil
}

// Decode verifica firma y validez estructural/temporal, y retorna las claims.
// Comparaciones de tiempo a granularidad de segundo; exp <= now es expirado.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	parser := jwtv5.NewParser(
		jwtv5.WithValidMethods([]string{"EdDSA"}),
		jwtv5.WithTimeFunc(func() time.Time { return c.now().UTC() }),
		jwtv5.WithExpirationRequired(),
	)

	var cl Claims
	_, err := parser.ParseWithClaims(tokenString, &cl, func(t *jwtv5.Token) (any, error) {
		return c.keys.Pub, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}
	return &cl, nil
}

// mapParseError colapsa los errores de jwtv5 al set tipado del codec.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwtv5.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid),
		errors.Is(err, jwtv5.ErrTokenUnverifiable):
		return ErrBadSignature
	default:
		// estructura rota, base64 inválido, claims no parseables, etc.
		return ErrMalformedToken
	}
}
