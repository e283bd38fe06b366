package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/habit-tracker/internal/auth"
	"github.com/sakif/habit-tracker/internal/service"
)

// HabitHandler manages CRUD for habit definitions. Every route is behind
// RequireAuth, and the user ID always comes from the validated token — a
// habit ID in the URL is only honoured if the habit belongs to that user.
type HabitHandler struct {
	habitService *service.HabitService
	logger       *slog.Logger
}

// NewHabitHandler creates a HabitHandler.
func NewHabitHandler(habitService *service.HabitService, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{habitService: habitService, logger: logger}
}

type createHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Color       string `json:"color"`
	XPReward    int    `json:"xpReward"`
	Difficulty  string `json:"difficulty"`
}

// updateHabitRequest uses pointers so omitted fields stay nil and the
// service can tell "not sent" from "sent as zero value".
type updateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	Color       *string `json:"color"`
	XPReward    *int    `json:"xpReward"`
	Difficulty  *string `json:"difficulty"`
}

// HandleList returns the user's habits.
//
// HTTP: GET /api/habits (protected)
func (h *HabitHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	habits, err := h.habitService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, habits)
}

// HandleGet returns one habit.
//
// HTTP: GET /api/habits/{id} (protected)
func (h *HabitHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	habit, err := h.habitService.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

// HandleCreate creates a habit.
//
// HTTP: POST /api/habits (protected)
// BODY: {"name": "...", "description": "...", "frequency": "daily",
//
//	"color": "#3b82f6", "xpReward": 50, "difficulty": "Medium"}
func (h *HabitHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid habit JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	habit, err := h.habitService.Create(r.Context(), userID, service.CreateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		Color:       req.Color,
		XPReward:    req.XPReward,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, habit)
}

// HandleUpdate applies a partial update to a habit.
//
// HTTP: PUT /api/habits/{id} (protected)
func (h *HabitHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req updateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid habit JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	habit, err := h.habitService.Update(r.Context(), userID, r.PathValue("id"), service.UpdateHabitInput{
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		Color:       req.Color,
		XPReward:    req.XPReward,
		Difficulty:  req.Difficulty,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

// HandleDelete removes a habit. Its records (and the XP they granted) are
// left untouched.
//
// HTTP: DELETE /api/habits/{id} (protected)
func (h *HabitHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.habitService.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "habit deleted"})
}

// HandlePresets returns the built-in habit catalog.
//
// HTTP: GET /api/habits/presets (protected)
func (h *HabitHandler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.habitService.Presets())
}
