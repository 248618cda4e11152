package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"breathadmin/internal/database"
)

// Session represents an active admin session
type Session struct {
	ID        string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionManager manages admin sessions backed by the local state store, so
// sessions survive server restarts.
type SessionManager struct {
	db            *database.Database
	duration      time.Duration
	cookieName    string
	secureCookies bool
	stop          chan struct{}
}

// NewSessionManager creates a session manager and starts its cleanup loop.
func NewSessionManager(db *database.Database, duration time.Duration, secureCookies bool) *SessionManager {
	sm := &SessionManager{
		db:            db,
		duration:      duration,
		cookieName:    "sob_admin_session",
		secureCookies: secureCookies,
		stop:          make(chan struct{}),
	}

	go sm.cleanupExpiredSessions()

	return sm
}

// CreateSession creates a new session for the given admin email.
func (sm *SessionManager) CreateSession(email string) (*Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	now := time.Now()
	session := &Session{
		ID:        sessionID,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(sm.duration),
	}

	err = sm.db.InsertSession(database.SessionRecord{
		ID:        session.ID,
		Email:     session.Email,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// GetSession retrieves a session by ID, expiring it when stale.
func (sm *SessionManager) GetSession(sessionID string) (*Session, bool) {
	rec, err := sm.db.GetSession(sessionID)
	if err != nil {
		return nil, false
	}

	if time.Now().After(rec.ExpiresAt) {
		sm.DeleteSession(sessionID)
		return nil, false
	}

	return &Session{
		ID:        rec.ID,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
	}, true
}

// DeleteSession removes a session.
func (sm *SessionManager) DeleteSession(sessionID string) {
	_ = sm.db.DeleteSession(sessionID)
}

// RefreshSession extends the session expiration time.
func (sm *SessionManager) RefreshSession(sessionID string) bool {
	err := sm.db.RefreshSession(sessionID, time.Now().Add(sm.duration))
	return err == nil
}

// SetSessionCookie sets the session cookie on the response.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, session *Session) {
	cookie := &http.Cookie{
		Name:     sm.cookieName,
		Value:    session.ID,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   sm.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}

	http.SetCookie(w, cookie)
}

// ClearSessionCookie removes the session cookie.
func (sm *SessionManager) ClearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   sm.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}

	http.SetCookie(w, cookie)
}

// GetSessionFromRequest extracts the session from the request cookie.
func (sm *SessionManager) GetSessionFromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return nil, false
	}

	return sm.GetSession(cookie.Value)
}

// Stop terminates the cleanup loop.
func (sm *SessionManager) Stop() {
	close(sm.stop)
}

// cleanupExpiredSessions periodically removes expired sessions.
func (sm *SessionManager) cleanupExpiredSessions() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := sm.db.DeleteExpiredSessions(); err != nil {
				// next tick retries; nothing actionable here
				continue
			}
		case <-sm.stop:
			return
		}
	}
}

// generateSessionID generates a cryptographically secure session ID.
func generateSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
