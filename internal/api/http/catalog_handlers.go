package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/learntrack/learntrack/internal/catalog"
)

// courseSummary omits lesson content and quiz questions; the dashboard only
// needs titles and counts.
type courseSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	LessonCount int    `json:"lesson_count"`
	QuizLength  int    `json:"quiz_length"`
}

// GET /catalog
func ListCoursesHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		courses := cat.Courses()
		out := make([]courseSummary, 0, len(courses))
		for _, c := range courses {
			out = append(out, courseSummary{
				ID:          c.ID,
				Title:       c.Title,
				Description: c.Description,
				LessonCount: len(c.Lessons),
				QuizLength:  len(c.Quiz.Questions),
			})
		}
		writeJSON(w, out)
	}
}

// GET /catalog/courses/{courseID} — full course, with quiz answer keys
// stripped before serving.
func GetCourseHandler(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "courseID"))
		if err != nil {
			http.Error(w, "bad course id", http.StatusBadRequest)
			return
		}
		c, err := cat.Course(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		stripped := make([]catalog.Question, 0, len(c.Quiz.Questions))
		for _, q := range c.Quiz.Questions {
			stripped = append(stripped, catalog.Question{Prompt: q.Prompt, Options: q.Options})
		}
		c.Quiz = catalog.Quiz{Questions: stripped}
		writeJSON(w, c)
	}
}
