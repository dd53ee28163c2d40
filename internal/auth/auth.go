// Package auth is the access gate: bcrypt-verified users persisted in the
// configuration database with opaque bearer tokens held in memory. Sessions
// do not survive a process restart; clients simply log in again.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/Djnirds1984/Hybrid-Router/internal/domain"
	"github.com/Djnirds1984/Hybrid-Router/internal/repository"
)

// SessionTTL is how long a login remains valid.
const SessionTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords
	// alike, so responses don't leak which one it was.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrInvalidSession means the token is unknown or has expired.
	ErrInvalidSession = errors.New("auth: invalid session")
)

// Identity is the authenticated caller attached to request contexts.
type Identity struct {
	ID       int64
	Username string
	Role     string
}

// Session is an active login.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store manages credentials and active sessions.
type Store struct {
	users repository.UserRepository

	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

// NewStore creates an auth store over the users repository.
func NewStore(users repository.UserRepository) *Store {
	return &Store{
		users:    users,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// EnsureAdmin creates the bootstrap admin account when no users exist yet.
func (s *Store) EnsureAdmin(ctx context.Context, username, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, domain.User{
		Username: username,
		Password: string(hash),
		Role:     "admin",
	})
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}

	log.Info().Str("username", username).Msg("created bootstrap admin user")
	return nil
}

// Authenticate validates credentials and opens a session.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, err
	}
	token := hex.EncodeToString(tokenBytes)

	now := s.now()
	session := &Session{
		Token:     token,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session, nil
}

// ValidateSession resolves a token to the identity behind it. Expired
// sessions are dropped on sight.
func (s *Store) ValidateSession(ctx context.Context, token string) (Identity, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return Identity{}, ErrInvalidSession
	}
	if session.ExpiresAt.Before(s.now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return Identity{}, ErrInvalidSession
	}

	user, err := s.users.FindByUsername(ctx, session.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Identity{}, ErrInvalidSession
		}
		return Identity{}, err
	}

	return Identity{ID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// Logout drops a session. Unknown tokens are a no-op.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ChangePassword verifies the current password and replaces the stored
// hash. Other sessions of the user stay open.
func (s *Store) ChangePassword(ctx context.Context, username, current, next string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}
