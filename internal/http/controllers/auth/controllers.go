// Package auth contiene los controllers de los endpoints de autenticación.
package auth

import (
	svc "github.com/dropDatabas3/authcore/internal/http/services/auth"
)

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Login    *LoginController
	Refresh  *RefreshController
	Logout   *LogoutController
	Register *RegisterController
	Password *PasswordController
	Me       *MeController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Login:    NewLoginController(s.Login),
		Refresh:  NewRefreshController(s.Refresh),
		Logout:   NewLogoutController(s.Logout),
		Register: NewRegisterController(s.Register),
		Password: NewPasswordController(s.Password),
		Me:       NewMeController(),
	}
}
