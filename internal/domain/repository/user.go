package repository

import (
	"context"
	"time"
)

// User representa un usuario del sistema.
//
// TokenVersion es el contador de invalidación masiva: un token emitido antes
// de un bump (claims.token_version < user.TokenVersion) queda inválido sin
// necesidad de enumerarlo. Monótonamente no-decreciente.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	GivenName    string
	FamilyName   string
	Phone        string
	TokenVersion int64
	CreatedAt    time.Time
}

// CreateUserInput contiene los datos para crear un usuario.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Role         string
	GivenName    string
	FamilyName   string
	Phone        string
}

// UserRepository define operaciones sobre usuarios.
type UserRepository interface {
	// Create crea un nuevo usuario con token_version 0.
	// Retorna ErrConflict si el email ya existe.
	Create(ctx context.Context, input CreateUserInput) (*User, error)

	// GetByID busca un usuario por ID. Retorna ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail busca un usuario por email (case-insensitive).
	// Retorna ErrNotFound si no existe.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// UpdatePasswordHash reemplaza el hash de password del usuario.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error

	// BumpTokenVersion incrementa token_version en exactamente 1, de forma
	// atómica a nivel del store (UPDATE ... SET v = v + 1). Dos bumps
	// concurrentes para el mismo usuario suman 2, nunca 1.
	// Retorna la versión resultante y ErrNotFound si el usuario no existe.
	BumpTokenVersion(ctx context.Context, id string) (int64, error)
}
