package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MCASE28/planb-tier/internal/dependencies/clock"
)

// Errors
var (
	ErrInvalidPassword = errors.New("invalid host password")
	ErrInvalidSession  = errors.New("invalid or expired host session")
	ErrNoPassword      = errors.New("no host password configured")
)

// Session represents an authenticated host session
type Session struct {
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service. Exactly one of
// Password or PasswordHash should be set: PasswordHash is a bcrypt hash
// and takes precedence; Password is compared verbatim (the original
// deployment model - a single shared static secret offering no real
// access control, which the operator documentation must call out).
type Config struct {
	Password        string
	PasswordHash    string
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 12 * time.Hour,
	}
}

// Service verifies the shared host secret and manages host sessions
type Service struct {
	clock  clock.Clock
	cfg    Config
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New creates a new auth service
func New(clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		clock:    clk,
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "auth")),
		sessions: make(map[string]*Session),
	}
}

// VerifyPassword checks a submitted password against the shared secret
func (s *Service) VerifyPassword(password string) error {
	if s.cfg.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
			return ErrInvalidPassword
		}
		return nil
	}

	if s.cfg.Password == "" {
		return ErrNoPassword
	}

	if subtle.ConstantTimeCompare([]byte(s.cfg.Password), []byte(password)) != 1 {
		return ErrInvalidPassword
	}
	return nil
}

// Login verifies the password and mints a host session
func (s *Service) Login(password string) (*Session, error) {
	if err := s.VerifyPassword(password); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &Session{
		Token:     generateToken(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	s.logger.Info("host session created")
	return session, nil
}

// ValidateSession checks a host session token
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// RevokeSession removes a host session (host logout)
func (s *Service) RevokeSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// generateToken returns an opaque session token
func generateToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
