package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/learntrack/learntrack/internal/progress"
	"github.com/learntrack/learntrack/internal/session"
)

// GET /progress
func GetProgressHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, m.Progress())
	}
}

// GET /progress/attempts/{courseID} — attempt history, oldest first.
func ListAttemptsHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "courseID"))
		if err != nil {
			http.Error(w, "bad course id", http.StatusBadRequest)
			return
		}
		writeJSON(w, m.Attempts(id)) // [] when none
	}
}

// GET /certificate
func GetCertificateHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, m.Certificate())
	}
}

// POST /certificate/download — issuance is display-only; the download is an
// explicit not-implemented outcome, never a silent success.
func DownloadCertificateHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep := m.Certificate()
		if !rep.Eligible {
			http.Error(w, "certificate not yet earned", http.StatusConflict)
			return
		}
		if err := progress.DownloadCertificate(); err != nil {
			if errors.Is(err, progress.ErrNotImplemented) {
				http.Error(w, err.Error(), http.StatusNotImplemented)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
