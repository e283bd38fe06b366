package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/habit-tracker/internal/auth"
	"github.com/sakif/habit-tracker/internal/model"
	"github.com/sakif/habit-tracker/internal/service"
	"github.com/sakif/habit-tracker/internal/xp"
)

// RecordHandler manages per-day completion records — the write paths are
// thin wrappers around the completion ledger in the service layer.
type RecordHandler struct {
	recordService *service.RecordService
	logger        *slog.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(recordService *service.RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{recordService: recordService, logger: logger}
}

// submitRecordRequest is the upsert payload. Completed and Notes are
// pointers: an omitted field preserves the record's prior value (and a new
// record defaults to completed).
type submitRecordRequest struct {
	HabitID   string  `json:"habitId"`
	Date      string  `json:"date"`
	Completed *bool   `json:"completed"`
	Notes     *string `json:"notes"`
}

// submitRecordResponse pairs the record with the user's refreshed level
// info so the client can animate the XP bar without a second request.
type submitRecordResponse struct {
	Record    *model.HabitRecord `json:"record"`
	LevelInfo xp.LevelInfo       `json:"levelInfo"`
}

type deleteRecordResponse struct {
	Message   string       `json:"message"`
	LevelInfo xp.LevelInfo `json:"levelInfo"`
}

// parseDate accepts either a bare calendar date ("2024-01-15") or a full
// RFC 3339 timestamp. Either way the ledger truncates to midnight UTC, so
// the time-of-day is irrelevant — we just accept both client conventions.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// HandleSubmit creates or updates the completion record for one habit on
// one calendar day, awarding or deducting XP per the ledger rules.
//
// HTTP: POST /api/records (protected)
// BODY: {"habitId": "...", "date": "2024-01-15", "completed": true, "notes": "..."}
//
// Submitting twice for the same habit and day updates the one existing
// record — it never creates a duplicate.
func (h *RecordHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req submitRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid record JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "Invalid JSON body"})
		return
	}

	if req.Date == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "date is required"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "date must be YYYY-MM-DD or RFC 3339"})
		return
	}

	result, err := h.recordService.Submit(r.Context(), userID, service.SubmitRecordInput{
		HabitID:   req.HabitID,
		Date:      date,
		Completed: req.Completed,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submitRecordResponse{
		Record:    result.Record,
		LevelInfo: result.LevelInfo,
	})
}

// HandleDelete removes a record, reversing its XP effect if it was
// completed.
//
// HTTP: DELETE /api/records/{id} (protected)
func (h *RecordHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	info, err := h.recordService.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteRecordResponse{
		Message:   "record deleted",
		LevelInfo: info,
	})
}

// HandleListByHabit returns all records for one owned habit.
//
// HTTP: GET /api/records/habit/{habitID} (protected)
func (h *RecordHandler) HandleListByHabit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	records, err := h.recordService.ListByHabit(r.Context(), userID, r.PathValue("habitID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// HandleList returns the user's records, optionally bounded by an
// inclusive date range.
//
// HTTP: GET /api/records?from=2024-01-01&to=2024-01-31 (protected)
func (h *RecordHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var from, to *time.Time
	if s := r.URL.Query().Get("from"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "from must be YYYY-MM-DD or RFC 3339"})
			return
		}
		from = &t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "to must be YYYY-MM-DD or RFC 3339"})
			return
		}
		to = &t
	}

	records, err := h.recordService.ListByUser(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}
