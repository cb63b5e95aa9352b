package jwt

import (
	"errors"
	"time"
)

// ErrEmptyIdentity: no se puede emitir (ni reemitir) sin identidad resuelta.
var ErrEmptyIdentity = errors.New("jwt: empty identity claims")

// Token es la credencial emitida: par access + refresh.
// Inmutable una vez emitido; no se persiste como entidad — solo se
// reconstruye re-validando las claims embebidas.
type Token struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresAt int64  `json:"access_token_expires_at"` // epoch seconds
	RefreshToken         string `json:"refresh_token"`
}

// Issuer emite pares access+refresh usando el Codec.
type Issuer struct {
	Codec      *Codec
	AccessTTL  time.Duration // corto (ej: 15m)
	RefreshTTL time.Duration // largo (ej: 7d)
}

// NewIssuer crea un emisor con TTLs por defecto.
func NewIssuer(codec *Codec) *Issuer {
	return &Issuer{
		Codec:      codec,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

// IssuePair emite un access token (identidad completa) y un refresh token
// (claims mínimas: solo sub + token_version, para limitar el blast radius si
// se filtra). Ambos llevan el mismo snapshot de token_version y jtis
// independientes.
func (i *Issuer) IssuePair(identity Identity) (*Token, error) {
	if identity.IsZero() {
		return nil, ErrEmptyIdentity
	}

	access, accessClaims, err := i.Codec.Encode(accessClaimsFor(identity), i.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh, _, err := i.Codec.Encode(Claims{
		Use:              UseRefresh,
		TokenVersion:     identity.TokenVersion,
		RegisteredClaims: registered(identity.UserID),
	}, i.RefreshTTL)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken:          access,
		AccessTokenExpiresAt: accessClaims.ExpiresAt.Unix(),
		RefreshToken:         refresh,
	}, nil
}

// ReissueAccess emite un access token nuevo y reutiliza el refresh token
// provisto por el caller sin tocarlo.
func (i *Issuer) ReissueAccess(identity Identity, refreshToken string) (*Token, error) {
	if identity.IsZero() {
		return nil, ErrEmptyIdentity
	}

	access, accessClaims, err := i.Codec.Encode(accessClaimsFor(identity), i.AccessTTL)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken:          access,
		AccessTokenExpiresAt: accessClaims.ExpiresAt.Unix(),
		RefreshToken:         refreshToken,
	}, nil
}

func accessClaimsFor(identity Identity) Claims {
	return Claims{
		Use:              UseAccess,
		Role:             identity.Role,
		GivenName:        identity.GivenName,
		FamilyName:       identity.FamilyName,
		Email:            identity.Email,
		Phone:            identity.Phone,
		TokenVersion:     identity.TokenVersion,
		RegisteredClaims: registered(identity.UserID),
	}
}
