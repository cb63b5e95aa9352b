// Package auth contiene los DTOs de los endpoints de autenticación.
package auth

// LoginRequest es el body de POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse es la forma estándar de respuesta con tokens
// (login y refresh comparten esta forma).
type TokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresAt int64  `json:"access_token_expires_at"` // epoch seconds
	RefreshToken         string `json:"refresh_token"`
	TokenType            string `json:"token_type"` // siempre "Bearer"
}
