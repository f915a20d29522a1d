package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/humanorbot/internal/dependencies/clock"
	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/storage"
)

// Errors
var (
	ErrInvalidSecret = errors.New("invalid join secret")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrNotAdmin      = errors.New("invalid admin secret")
)

// AgentSession is an authenticated automated participant. The token
// authorizes every subsequent agent API call.
type AgentSession struct {
	Token         string
	ParticipantID model.ParticipantID
	DisplayName   string

	// ProviderLabel names the provider whose join secret was used,
	// empty for the shared agent secret
	ProviderLabel string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the auth service
type Config struct {
	// AgentSecret is the shared join secret for automated participants.
	// Empty disables the shared secret; provider secrets still work.
	AgentSecret string

	// AdminSecret authorizes provider management calls. Empty disables
	// the admin surface entirely.
	AdminSecret string

	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// Service authenticates automated participants and admin calls
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config

	mu       sync.RWMutex
	sessions map[string]*AgentSession
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		cfg:      cfg,
		sessions: make(map[string]*AgentSession),
	}
}

// JoinAgent validates a join secret and creates an agent session. The
// secret may be the shared agent secret or any registered provider's
// secret; the latter labels the session with the provider's name.
func (s *Service) JoinAgent(ctx context.Context, displayName, secret string) (*AgentSession, error) {
	label, err := s.resolveSecret(ctx, secret)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &AgentSession{
		Token:         s.generateID("tok_"),
		ParticipantID: model.ParticipantID(s.generateID("agent_")),
		DisplayName:   model.TruncateDisplayName(displayName),
		ProviderLabel: label,
		CreatedAt:     now,
		ExpiresAt:     now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session, nil
}

// resolveSecret matches a join secret against the shared secret and
// every provider's secret, returning the provider label on a match
func (s *Service) resolveSecret(ctx context.Context, secret string) (string, error) {
	if secret == "" {
		return "", ErrInvalidSecret
	}

	if s.cfg.AgentSecret != "" &&
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.AgentSecret)) == 1 {
		return "", nil
	}

	providers, err := s.storage.ListProviders(ctx)
	if err != nil {
		return "", err
	}
	for _, provider := range providers {
		if provider.JoinSecretHash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(provider.JoinSecretHash), []byte(secret)) == nil {
			return provider.DisplayName, nil
		}
	}

	return "", ErrInvalidSecret
}

// ValidateToken checks an agent token and returns its session
func (s *Service) ValidateToken(token string) (*AgentSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidToken
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidToken
	}

	return session, nil
}

// InvalidateToken removes an agent session
func (s *Service) InvalidateToken(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ValidateAdmin checks the admin secret for provider management calls
func (s *Service) ValidateAdmin(secret string) error {
	if s.cfg.AdminSecret == "" {
		return ErrNotAdmin
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.AdminSecret)) != 1 {
		return ErrNotAdmin
	}
	return nil
}

// HashJoinSecret hashes a provider join secret for storage
func (s *Service) HashJoinSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CleanExpiredSessions removes expired agent sessions (call
// periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

// generateID generates a random ID with a prefix
func (s *Service) generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
