package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/learntrack/learntrack/internal/session"
)

// Handlers only — routes remain in main.go

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func transitionStatus(err error) int {
	if errors.Is(err, session.ErrInvalidTransition) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

// GET /session — navigation state plus the quiz view when one is active.
func GetSessionHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type out struct {
			Nav      session.NavState       `json:"nav"`
			Quiz     *session.QuizView      `json:"quiz,omitempty"`
			Progress session.ProgressReport `json:"progress"`
		}
		o := out{Nav: m.Nav(), Progress: m.Progress()}
		if qv, ok := m.Quiz(); ok {
			o.Quiz = &qv
		}
		writeJSON(w, o)
	}
}

// POST /session/start — leave the welcome screen.
func GetStartedHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.GetStarted(r.Context()); err != nil {
			http.Error(w, err.Error(), transitionStatus(err))
			return
		}
		writeJSON(w, m.Nav())
	}
}

// POST /session/courses/{courseID}
func SelectCourseHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "courseID"))
		if err != nil {
			http.Error(w, "bad course id", http.StatusBadRequest)
			return
		}
		if err := m.SelectCourse(r.Context(), id); err != nil {
			http.Error(w, err.Error(), transitionStatus(err))
			return
		}
		writeJSON(w, m.Nav())
	}
}

// POST /session/lessons/{lessonID} — entering a lesson marks it complete.
func SelectLessonHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "lessonID"))
		if err != nil {
			http.Error(w, "bad lesson id", http.StatusBadRequest)
			return
		}
		if err := m.SelectLesson(r.Context(), id); err != nil {
			http.Error(w, err.Error(), transitionStatus(err))
			return
		}
		writeJSON(w, m.Nav())
	}
}

// POST /session/quiz
func TakeQuizHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.TakeQuiz(r.Context()); err != nil {
			http.Error(w, err.Error(), transitionStatus(err))
			return
		}
		qv, _ := m.Quiz()
		writeJSON(w, qv)
	}
}

// POST /session/quiz/answer  { "selected": 2 }
// A body without "selected" is accepted and ignored: the control is inert
// until an option is chosen.
func SubmitAnswerHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Selected *int `json:"selected"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := m.SubmitAnswer(r.Context(), req.Selected); err != nil {
			http.Error(w, err.Error(), transitionStatus(err))
			return
		}
		qv, _ := m.Quiz()
		writeJSON(w, qv)
	}
}

// POST /session/back/course
func BackToCourseHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.BackToCourse(r.Context()); err != nil {
			http.Error(w, err.Error(), transitionStatus(err))
			return
		}
		writeJSON(w, m.Nav())
	}
}

// POST /session/back/dashboard
func BackToDashboardHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.BackToDashboard(r.Context()); err != nil {
			http.Error(w, err.Error(), transitionStatus(err))
			return
		}
		writeJSON(w, m.Nav())
	}
}

// POST /session/navigate  { "section": "certificate" }
func NavigateHandler(m *session.Machine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Section string `json:"section"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Section == "" {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := m.NavigateTo(r.Context(), req.Section); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, m.Nav())
	}
}
