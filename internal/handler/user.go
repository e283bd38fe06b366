package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/habit-tracker/internal/auth"
	"github.com/sakif/habit-tracker/internal/model"
	"github.com/sakif/habit-tracker/internal/service"
	"github.com/sakif/habit-tracker/internal/xp"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(authService *service.AuthService, logger *slog.Logger) *UserHandler {
	return &UserHandler{authService: authService, logger: logger}
}

// profileResponse flattens the user record and its derived level info into
// the shape the dashboard renders: level and xp sit next to totalXp even
// though only totalXp is stored.
type profileResponse struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	TotalXP       int    `json:"totalXp"`
	Level         int    `json:"level"`
	XP            int    `json:"xp"`
	XPToNextLevel int    `json:"xpToNextLevel"`
}

func newProfileResponse(user *model.User, info xp.LevelInfo) profileResponse {
	return profileResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		TotalXP:       user.TotalXP,
		Level:         info.Level,
		XP:            info.XP,
		XPToNextLevel: info.XPToNextLevel,
	}
}

// HandleMe returns the current user's profile with derived level info.
//
// HTTP: GET /api/users/me (protected)
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	user, info, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(user, info))
}

type updateProfileRequest struct {
	Username string `json:"username"`
}

// HandleUpdateMe changes the current user's username.
//
// HTTP: PUT /api/users/me (protected)
// BODY: {"username": "..."}
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid profile JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	user, info, err := h.authService.UpdateProfile(r.Context(), userID, req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newProfileResponse(user, info))
}
