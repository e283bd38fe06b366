package handler

import "net/http"

// HandleHealth is a liveness probe.
//
// HTTP: GET /api/health
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Habit Tracker API is running",
	})
}
