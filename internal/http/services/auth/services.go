// Package auth contiene los services de autenticación: login, refresh,
// logout, register y cambio de password. Cada service es una interfaz chica
// con un constructor que recibe sus dependencias explícitas.
package auth

import (
	"github.com/dropDatabas3/authcore/internal/domain/repository"
	jwtx "github.com/dropDatabas3/authcore/internal/jwt"
	"github.com/dropDatabas3/authcore/internal/token"
)

// Services agrupa todos los services del dominio auth.
type Services struct {
	Login    LoginService
	Refresh  RefreshService
	Logout   LogoutService
	Register RegisterService
	Password PasswordService
}

// Deps contiene las dependencias compartidas por los services.
type Deps struct {
	Users     repository.UserRepository
	Issuer    *jwtx.Issuer
	Validator *token.Validator
	Revoker   *token.Revoker
}

// New arma el set completo de services.
func New(deps Deps) Services {
	return Services{
		Login:    NewLoginService(LoginDeps{Users: deps.Users, Issuer: deps.Issuer}),
		Refresh:  NewRefreshService(RefreshDeps{Users: deps.Users, Issuer: deps.Issuer, Validator: deps.Validator}),
		Logout:   NewLogoutService(LogoutDeps{Validator: deps.Validator, Revoker: deps.Revoker}),
		Register: NewRegisterService(RegisterDeps{Users: deps.Users}),
		Password: NewPasswordService(PasswordDeps{Users: deps.Users, Revoker: deps.Revoker}),
	}
}

// identityFor arma la identidad a embeber en un access token a partir del
// registro actual del usuario (incluye el snapshot de token_version).
func identityFor(u *repository.User) jwtx.Identity {
	return jwtx.Identity{
		UserID:       u.ID,
		Role:         u.Role,
		GivenName:    u.GivenName,
		FamilyName:   u.FamilyName,
		Email:        u.Email,
		Phone:        u.Phone,
		TokenVersion: u.TokenVersion,
	}
}
