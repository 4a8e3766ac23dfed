package session

// View is the active screen of the learner session.
type View string

const (
	ViewWelcome     View = "welcome"
	ViewDashboard   View = "dashboard"
	ViewCourse      View = "course"
	ViewLesson      View = "lesson"
	ViewQuiz        View = "quiz"
	ViewCertificate View = "certificate"
)

// NavState is the navigation half of the session. CourseID is non-nil
// whenever the view is course, lesson or quiz; LessonID is non-nil only in
// the lesson view. A stale CourseID in other views is permitted.
type NavState struct {
	View        View `json:"view"`
	ShowWelcome bool `json:"show_welcome"`
	CourseID    *int `json:"current_course"`
	LessonID    *int `json:"current_lesson"`
}

func (n NavState) clone() NavState {
	out := n
	if n.CourseID != nil {
		v := *n.CourseID
		out.CourseID = &v
	}
	if n.LessonID != nil {
		v := *n.LessonID
		out.LessonID = &v
	}
	return out
}

// sectionViews maps raw navigation intents to views. "courses" is the
// dashboard's historical section name.
var sectionViews = map[string]View{
	"welcome":     ViewWelcome,
	"dashboard":   ViewDashboard,
	"courses":     ViewDashboard,
	"course":      ViewCourse,
	"lesson":      ViewLesson,
	"quiz":        ViewQuiz,
	"certificate": ViewCertificate,
}
