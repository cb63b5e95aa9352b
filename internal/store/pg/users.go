package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
)

const userColumns = `id, email, password_hash, role, given_name, family_name, phone, token_version, created_at`

func (s *Store) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	const q = `
		INSERT INTO users (id, email, password_hash, role, given_name, family_name, phone)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	id := uuid.NewString()
	row := s.pool.QueryRow(ctx, q, id, input.Email, input.PasswordHash,
		input.Role, input.GivenName, input.FamilyName, input.Phone)

	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	u, err := scanUser(s.pool.QueryRow(ctx, q, email))
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2 WHERE id = $1`
	ct, err := s.pool.Exec(ctx, q, id, passwordHash)
	if err != nil {
		return mapErr(err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// BumpTokenVersion incrementa en el servidor: un solo UPDATE atómico, sin
// read-modify-write, así dos cambios de password concurrentes nunca colapsan
// un incremento.
func (s *Store) BumpTokenVersion(ctx context.Context, id string) (int64, error) {
	const q = `UPDATE users SET token_version = token_version + 1 WHERE id = $1 RETURNING token_version`
	var v int64
	if err := s.pool.QueryRow(ctx, q, id).Scan(&v); err != nil {
		return 0, mapErr(err)
	}
	return v, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.GivenName, &u.FamilyName, &u.Phone, &u.TokenVersion, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
