// Package memory implementa los repositorios en memoria, para desarrollo y
// tests. Semántica idéntica a pg: bump atómico bajo lock, inserts idempotentes.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/authcore/internal/domain/repository"
)

// Store implementa repository.UserRepository y repository.RevokedTokenRepository.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*repository.User // por id
	byEmail map[string]string           // email → id
	revoked map[string]time.Time        // jti → created_at

	// FailWith fuerza un error en toda operación (tests de fail-closed).
	FailWith error
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		users:   make(map[string]*repository.User),
		byEmail: make(map[string]string),
		revoked: make(map[string]time.Time),
	}
}

func (s *Store) Create(ctx context.Context, input repository.CreateUserInput) (*repository.User, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, ok := s.byEmail[email]; ok {
		return nil, repository.ErrConflict
	}
	u := &repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: input.PasswordHash,
		Role:         input.Role,
		GivenName:    input.GivenName,
		FamilyName:   input.FamilyName,
		Phone:        input.Phone,
		TokenVersion: 0,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[u.ID] = u
	s.byEmail[email] = u.ID
	cp := *u
	return &cp, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*repository.User, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *Store) BumpTokenVersion(ctx context.Context, id string) (int64, error) {
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

func (s *Store) MarkRevoked(ctx context.Context, jti string) error {
	if s.FailWith != nil {
		return s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.revoked[jti]; !ok {
		s.revoked[jti] = time.Now().UTC()
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.FailWith != nil {
		return false, s.FailWith
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.revoked[jti]
	return ok, nil
}

func (s *Store) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.FailWith != nil {
		return 0, s.FailWith
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for jti, at := range s.revoked {
		if at.Before(cutoff) {
			delete(s.revoked, jti)
			n++
		}
	}
	return n, nil
}

// Ping siempre OK (o FailWith si está seteado).
func (s *Store) Ping(ctx context.Context) error { return s.FailWith }
