package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/4PPL8/wahabstore/internal/auth"
	"github.com/4PPL8/wahabstore/internal/repository"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type AuthHandler struct {
	auth    *auth.Service
	timeout time.Duration
}

func NewAuthHandler(authService *auth.Service, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:    authService,
		timeout: timeout,
	}
}

type LoginRequestDTO struct {
	Email string `json:"email"`
}

type RegisterRequestDTO struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type VerifyRequestDTO struct {
	Code string `json:"code"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		respondError(w, http.StatusBadRequest, "invalid_email", "email is required")
		return
	}
	if !emailPattern.MatchString(email) {
		respondError(w, http.StatusBadRequest, "invalid_email", "please enter a valid email address")
		return
	}

	if err := h.auth.Login(ctx, sessionID, email, auth.Profile{}); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to start verification")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Verification code sent to " + email,
		"email":   email,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !emailPattern.MatchString(email) {
		respondError(w, http.StatusBadRequest, "invalid_email", "please enter a valid email address")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return
	}
	if strings.TrimSpace(req.Phone) == "" {
		respondError(w, http.StatusBadRequest, "invalid_phone", "phone number is required")
		return
	}

	profile := auth.Profile{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
	}
	if err := h.auth.Login(ctx, sessionID, email, profile); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to start verification")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Verification code sent to " + email,
		"email":   email,
	})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req VerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "invalid_code", "verification code is required")
		return
	}

	user, err := h.auth.Verify(ctx, sessionID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNoPendingChallenge):
			respondError(w, http.StatusNotFound, "no_pending_verification",
				"No pending verification found. Please try logging in again.")
		case errors.Is(err, auth.ErrChallengeExpired):
			respondError(w, http.StatusGone, "code_expired",
				"Verification code has expired. Please try logging in again.")
		case errors.Is(err, auth.ErrInvalidCode):
			respondError(w, http.StatusBadRequest, "invalid_code",
				"Invalid verification code. Please try again.")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "verification failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Resend(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.auth.Resend(ctx, sessionID); err != nil {
		if errors.Is(err, auth.ErrNoPendingChallenge) {
			respondError(w, http.StatusNotFound, "no_pending_verification",
				"No pending verification found. Please try logging in again.")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to resend code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "A new verification code was sent"})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	if err := h.auth.Logout(ctx, sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "logout failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me reports the session's auth state for the routing layer: the user when
// authenticated, otherwise whether a verification is pending and for whom.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	user, err := h.auth.CurrentUser(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			email, pending := h.auth.PendingEmail(sessionID)
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"is_authenticated":     false,
				"pending_verification": pending,
				"pending_email":        email,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"is_authenticated": true,
		"user":             user,
	})
}
