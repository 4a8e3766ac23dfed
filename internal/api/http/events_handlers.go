package http

import (
	"net/http"
	"strconv"

	"github.com/learntrack/learntrack/internal/eventlog"
)

// GET /admin/events?limit=50 — transition audit trail for the configured
// learner profile, newest first. Admin only.
func ListEventsHandler(repo *eventlog.Repo, profile string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		events, err := repo.Recent(r.Context(), profile, limit)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, events)
	}
}
