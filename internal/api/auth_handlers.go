package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Djnirds1984/Hybrid-Router/internal/auth"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token the client presents afterwards,
// along with the authenticated user.
type LoginResponse struct {
	Token     string          `json:"token"`
	User      ProfileResponse `json:"user"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// ProfileResponse describes the authenticated user.
type ProfileResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// ChangePasswordRequest is the body of POST /api/auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (a *API) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	session, err := a.sessions.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	identity, err := a.sessions.ValidateSession(r.Context(), session.Token)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token: session.Token,
		User: ProfileResponse{
			ID:       identity.ID,
			Username: identity.Username,
			Role:     identity.Role,
		},
		ExpiresAt: session.ExpiresAt,
	})
}

func (a *API) logoutHandler(w http.ResponseWriter, r *http.Request) {
	a.sessions.Logout(auth.TokenFromRequest(r))
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) profileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		ID:       identity.ID,
		Username: identity.Username,
		Role:     identity.Role,
	})
}

func (a *API) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "current and new password are required")
		return
	}
	if len(req.NewPassword) < 8 {
		writeError(w, http.StatusBadRequest, "new password must be at least 8 characters")
		return
	}

	err := a.sessions.ChangePassword(r.Context(), identity.Username, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		log.Error().Err(err).Str("username", identity.Username).Msg("password change failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
