package auth

import (
	"errors"
	"strings"

	"breathadmin/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login attempt. The cause
// (unknown email vs wrong password) is deliberately not distinguished.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator verifies an operator credential. The admin surface is
// single-user today, but keeping this behind an interface lets a
// backend-verified implementation slot in later without touching the
// session layer.
type Authenticator interface {
	Authenticate(email, password string) error
}

// StaticAuthenticator authenticates the single admin credential from the
// configuration file. The configured password may be plaintext or a bcrypt
// hash; plaintext is hashed on construction so it never sits in memory.
type StaticAuthenticator struct {
	email string
	hash  []byte
}

// NewStaticAuthenticator builds the authenticator from config.
func NewStaticAuthenticator(cfg *config.AuthConfig) (*StaticAuthenticator, error) {
	hash := []byte(cfg.AdminPassword)
	if !isBcryptHash(cfg.AdminPassword) {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}

	return &StaticAuthenticator{
		email: strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		hash:  hash,
	}, nil
}

// Authenticate checks the credential against the configured admin.
func (a *StaticAuthenticator) Authenticate(email, password string) error {
	if strings.ToLower(strings.TrimSpace(email)) != a.email {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// isBcryptHash detects bcrypt output ($2a$, $2b$ or $2y$ prefixes).
func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
