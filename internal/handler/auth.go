package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/habit-tracker/internal/auth"
	"github.com/sakif/habit-tracker/internal/service"
)

// AuthHandler manages registration, login and logout.
//
// The issued JWT travels two ways at once: in the JSON response body (for
// SPA clients that send it back as a Bearer header) and as an HttpOnly
// cookie (so browser sessions survive page reloads without exposing the
// token to JavaScript).
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the body for both register and login.
type authResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
// BODY: {"username": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	result, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /api/auth/login
// BODY: {"email": "...", "password": "..."}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setTokenCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// HandleLogout clears the token cookie. The JWT itself stays valid until it
// expires (stateless tokens can't be revoked server-side without a
// denylist), but the browser forgets it.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // delete immediately
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.DefaultTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
