package pg

import (
	"context"
	"time"
)

func (s *Store) MarkRevoked(ctx context.Context, jti string) error {
	// ON CONFLICT DO NOTHING: revocar un id ya revocado es no-op exitoso.
	const q = `INSERT INTO revoked_tokens (jti) VALUES ($1) ON CONFLICT (jti) DO NOTHING`
	_, err := s.pool.Exec(ctx, q, jti)
	return mapErr(err)
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, jti).Scan(&exists); err != nil {
		return false, mapErr(err)
	}
	return exists, nil
}

func (s *Store) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM revoked_tokens WHERE created_at < $1`
	ct, err := s.pool.Exec(ctx, q, cutoff)
	if err != nil {
		return 0, mapErr(err)
	}
	return ct.RowsAffected(), nil
}
