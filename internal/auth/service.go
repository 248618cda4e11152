package auth

import (
	"fmt"
	"time"

	"breathadmin/internal/config"
	"breathadmin/internal/database"
)

// Service provides authentication functionality for the admin surface.
type Service struct {
	config         *config.AuthConfig
	authenticator  Authenticator
	sessionManager *SessionManager
	enabled        bool
}

// NewService creates a new authentication service. When auth is disabled
// every session check passes, which is only meant for local development.
func NewService(cfg *config.AuthConfig, db *database.Database) (*Service, error) {
	if !cfg.Enabled {
		return &Service{
			config:  cfg,
			enabled: false,
		}, nil
	}

	duration, err := time.ParseDuration(cfg.SessionDuration)
	if err != nil {
		return nil, fmt.Errorf("invalid session duration: %w", err)
	}

	authenticator, err := NewStaticAuthenticator(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	return &Service{
		config:         cfg,
		authenticator:  authenticator,
		sessionManager: NewSessionManager(db, duration, cfg.SecureCookies),
		enabled:        true,
	}, nil
}

// IsEnabled returns whether authentication is enabled
func (s *Service) IsEnabled() bool {
	return s.enabled
}

// Login attempts to authenticate the operator and create a session.
func (s *Service) Login(email, password string) (*Session, error) {
	if !s.enabled {
		return nil, fmt.Errorf("authentication is disabled")
	}

	if err := s.authenticator.Authenticate(email, password); err != nil {
		return nil, err
	}

	session, err := s.sessionManager.CreateSession(email)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// ValidateSession checks if a session ID is valid
func (s *Service) ValidateSession(sessionID string) (*Session, bool) {
	if !s.enabled {
		return nil, true
	}

	return s.sessionManager.GetSession(sessionID)
}

// Logout invalidates a session
func (s *Service) Logout(sessionID string) {
	if !s.enabled {
		return
	}

	s.sessionManager.DeleteSession(sessionID)
}

// RefreshSession extends a session's expiration
func (s *Service) RefreshSession(sessionID string) bool {
	if !s.enabled {
		return true
	}

	return s.sessionManager.RefreshSession(sessionID)
}

// GetSessionManager returns the session manager (for middleware)
func (s *Service) GetSessionManager() *SessionManager {
	return s.sessionManager
}

// Stop halts the session cleanup loop. A no-op when auth is disabled and no
// session manager exists.
func (s *Service) Stop() {
	if s.sessionManager != nil {
		s.sessionManager.Stop()
	}
}
