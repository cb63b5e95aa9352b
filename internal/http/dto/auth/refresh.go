package auth

// RefreshRequest es el body de POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest es el body de POST /v1/auth/logout.
// Ambos tokens deben seguir siendo válidos: hacer logout con un token ya
// revocado o expirado es un error, no un no-op.
type LogoutRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
