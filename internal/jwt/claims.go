package jwt

import (
	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// TokenUse distingue access de refresh dentro de las claims ("token_use").
type TokenUse string

const (
	UseAccess  TokenUse = "access"
	UseRefresh TokenUse = "refresh"
)

// Claims es el payload embebido en cada token emitido.
//
// RegisteredClaims aporta: ID (jti, único por token emitido — no por usuario),
// Subject (user id), IssuedAt, ExpiresAt, Issuer.
// TokenVersion es el snapshot de user.token_version al momento de emisión.
type Claims struct {
	Use          TokenUse `json:"token_use,omitempty"`
	Role         string   `json:"role,omitempty"`
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	Email        string   `json:"email,omitempty"`
	Phone        string   `json:"phone,omitempty"`
	TokenVersion int64    `json:"token_version"`
	jwtv5.RegisteredClaims
}

// UserID retorna el subject (id del usuario dueño del token).
func (c *Claims) UserID() string { return c.Subject }

// JTI retorna el id único de este token concreto.
func (c *Claims) JTI() string { return c.ID }

// Identity son los datos de identidad que el emisor embebe en un access token.
type Identity struct {
	UserID       string
	Role         string
	GivenName    string
	FamilyName   string
	Email        string
	Phone        string
	TokenVersion int64
}

// IsZero reporta si la identidad está vacía (sin usuario).
func (id Identity) IsZero() bool { return id.UserID == "" }

// registered arma las RegisteredClaims base; jti/iat/exp los completa el codec.
func registered(userID string) jwtv5.RegisteredClaims {
	return jwtv5.RegisteredClaims{Subject: userID}
}
