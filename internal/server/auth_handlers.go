package server

import (
	"net/http"
)

// handleAuthLogin handles login API requests
func (as *AdminServer) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !as.decodeJSONBody(w, r, &credentials) {
		return
	}

	if credentials.Email == "" || credentials.Password == "" {
		as.respondWithError(w, r, http.StatusBadRequest, "Email and password required", nil)
		return
	}

	session, err := as.authService.Login(credentials.Email, credentials.Password)
	if err != nil {
		as.logger.WithError(err).WithField("email", credentials.Email).Warn("Failed login attempt")
		as.respondWithError(w, r, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	sessionManager := as.authService.GetSessionManager()
	sessionManager.SetSessionCookie(w, session)

	as.logger.WithField("email", credentials.Email).Info("Admin logged in")

	as.respondJSON(w, map[string]string{"status": "success", "email": session.Email})
}

// handleAuthLogout handles logout requests
func (as *AdminServer) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	if !as.authService.IsEnabled() {
		as.respondJSON(w, map[string]string{"status": "success"})
		return
	}

	sessionManager := as.authService.GetSessionManager()
	if session, valid := sessionManager.GetSessionFromRequest(r); valid {
		as.authService.Logout(session.ID)
		as.logger.WithField("email", session.Email).Info("Admin logged out")
	}

	sessionManager.ClearSessionCookie(w)

	as.respondJSON(w, map[string]string{"status": "success"})
}

// handleAuthMe reports the authenticated admin, for session restore on
// console reload.
func (as *AdminServer) handleAuthMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		as.respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}

	if !as.authService.IsEnabled() {
		as.respondJSON(w, map[string]interface{}{"authenticated": true, "authDisabled": true})
		return
	}

	sessionManager := as.authService.GetSessionManager()
	session, valid := sessionManager.GetSessionFromRequest(r)
	if !valid {
		as.respondWithError(w, r, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	as.respondJSON(w, map[string]interface{}{
		"authenticated": true,
		"email":         session.Email,
		"expiresAt":     session.ExpiresAt,
	})
}
