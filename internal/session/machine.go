package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/learntrack/learntrack/internal/catalog"
	"github.com/learntrack/learntrack/internal/progress"
	"github.com/learntrack/learntrack/internal/snapshot"
)

// ErrInvalidTransition is returned when an event arrives in a view whose
// guard rejects it. State is left untouched.
var ErrInvalidTransition = errors.New("invalid transition")

// Auditor records accepted transitions. Append failures are swallowed: the
// audit trail is best effort and must never block a transition.
type Auditor interface {
	Transition(ctx context.Context, profile, typ string, data any) error
}

// Machine owns the whole learner session: navigation state, the ephemeral
// quiz session and the progress tracker. All mutation funnels through the
// transition methods; every accepted transition persists a snapshot
// synchronously before returning.
type Machine struct {
	mu      sync.Mutex
	profile string
	cat     *catalog.Catalog
	store   snapshot.Store
	audit   Auditor
	now     func() time.Time

	nav     NavState
	quiz    *QuizSession
	result  *QuizResult
	tracker *progress.Tracker
}

// NewMachine starts at the welcome view with nothing completed. Call
// Restore to pick up a persisted snapshot.
func NewMachine(profile string, cat *catalog.Catalog, store snapshot.Store, audit Auditor) *Machine {
	return &Machine{
		profile: profile,
		cat:     cat,
		store:   store,
		audit:   audit,
		now:     time.Now,
		nav:     NavState{View: ViewWelcome, ShowWelcome: true},
		tracker: progress.NewTracker(),
	}
}

// Restore loads the persisted snapshot, if any, and adopts it verbatim. A
// missing record is not an error. A snapshot rejected by validation is
// reported so the caller can log it; the machine stays on defaults.
// A restored quiz view gets a fresh session at question zero: the session
// itself is never persisted. A restored view whose course or lesson no
// longer exists in the catalog falls back to the dashboard.
func (m *Machine) Restore(ctx context.Context) error {
	snap, err := m.store.Load(ctx, m.profile)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracker = progress.Restore(snap)
	m.nav = NavState{View: View(snap.View), ShowWelcome: snap.ShowWelcome}
	if snap.CurrentCourse != nil {
		v := *snap.CurrentCourse
		m.nav.CourseID = &v
	}
	if snap.CurrentLesson != nil {
		v := *snap.CurrentLesson
		m.nav.LessonID = &v
	}

	switch m.nav.View {
	case ViewCourse, ViewLesson, ViewQuiz:
		if m.nav.CourseID == nil || (m.nav.View == ViewLesson && m.nav.LessonID == nil) {
			m.toDashboardLocked()
			return nil
		}
		crs, err := m.cat.Course(*m.nav.CourseID)
		if err != nil {
			m.toDashboardLocked()
			return nil
		}
		if m.nav.View == ViewLesson {
			if _, err := m.cat.Lesson(crs.ID, *m.nav.LessonID); err != nil {
				m.toDashboardLocked()
				return nil
			}
		}
		if m.nav.View == ViewQuiz {
			if len(crs.Quiz.Questions) == 0 {
				m.toDashboardLocked()
				return nil
			}
			m.quiz = newQuizSession(crs)
		}
	}
	return nil
}

func (m *Machine) toDashboardLocked() {
	m.nav.View = ViewDashboard
	m.nav.LessonID = nil
	m.quiz = nil
	m.result = nil
}

// GetStarted leaves the welcome screen for the dashboard.
func (m *Machine) GetStarted(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewWelcome || !m.nav.ShowWelcome {
		return fmt.Errorf("%w: get-started from %s", ErrInvalidTransition, m.nav.View)
	}
	m.nav.View = ViewDashboard
	m.nav.ShowWelcome = false
	return m.commitLocked(ctx, "get_started", nil)
}

// SelectCourse opens a course from the dashboard. An id not present in the
// catalog is a caller bug and fails fast.
func (m *Machine) SelectCourse(ctx context.Context, courseID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewDashboard {
		return fmt.Errorf("%w: select-course from %s", ErrInvalidTransition, m.nav.View)
	}
	if _, err := m.cat.Course(courseID); err != nil {
		return err
	}
	m.nav.View = ViewCourse
	m.nav.CourseID = &courseID
	m.nav.LessonID = nil
	return m.commitLocked(ctx, "select_course", map[string]int{"course_id": courseID})
}

// SelectLesson opens a lesson and marks it complete immediately: completion
// is recorded on entry, not after any assessment.
func (m *Machine) SelectLesson(ctx context.Context, lessonID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewCourse {
		return fmt.Errorf("%w: select-lesson from %s", ErrInvalidTransition, m.nav.View)
	}
	courseID := *m.nav.CourseID
	if _, err := m.cat.Lesson(courseID, lessonID); err != nil {
		return err
	}
	m.nav.View = ViewLesson
	m.nav.LessonID = &lessonID
	m.tracker.MarkLessonComplete(courseID, lessonID)
	return m.commitLocked(ctx, "select_lesson", map[string]int{"course_id": courseID, "lesson_id": lessonID})
}

// TakeQuiz enters the quiz view with a fresh session at question zero.
func (m *Machine) TakeQuiz(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewCourse {
		return fmt.Errorf("%w: take-quiz from %s", ErrInvalidTransition, m.nav.View)
	}
	crs, err := m.cat.Course(*m.nav.CourseID)
	if err != nil {
		return err
	}
	if len(crs.Quiz.Questions) == 0 {
		return fmt.Errorf("course %d has no quiz questions", crs.ID)
	}
	m.nav.View = ViewQuiz
	m.quiz = newQuizSession(crs)
	m.result = nil
	return m.commitLocked(ctx, "take_quiz", map[string]int{"course_id": crs.ID})
}

// SubmitAnswer scores the current question and advances. A nil selection is
// a silent no-op: the action is inert until an option is chosen. Finishing
// the last question ends the session and appends exactly one attempt record.
func (m *Machine) SubmitAnswer(ctx context.Context, selected *int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewQuiz || m.quiz == nil {
		return fmt.Errorf("%w: submit-answer from %s", ErrInvalidTransition, m.nav.View)
	}
	if selected == nil {
		return nil
	}
	q := m.quiz
	if !q.answer(*selected) {
		return nil
	}
	m.result = &QuizResult{CourseID: q.CourseID, Score: q.Score, Total: len(q.Questions)}
	m.tracker.RecordAttempt(q.CourseID, q.Score, m.now())
	m.quiz = nil
	return m.commitLocked(ctx, "quiz_completed", m.result)
}

// BackToCourse returns from a lesson to its course page.
func (m *Machine) BackToCourse(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewLesson {
		return fmt.Errorf("%w: back-to-course from %s", ErrInvalidTransition, m.nav.View)
	}
	m.nav.View = ViewCourse
	m.nav.LessonID = nil
	return m.commitLocked(ctx, "back_to_course", nil)
}

// BackToDashboard leaves the quiz's terminal display after completion.
func (m *Machine) BackToDashboard(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewQuiz || m.result == nil {
		return fmt.Errorf("%w: back-to-dashboard from %s", ErrInvalidTransition, m.nav.View)
	}
	m.toDashboardLocked()
	return m.commitLocked(ctx, "back_to_dashboard", nil)
}

// NavigateTo is the raw navigation-link path. Unlike the guarded events it
// can reach any view, but jumping into course, lesson or quiz without a
// valid current selection falls back to the dashboard rather than entering
// a view whose lookups would fail. Leaving the quiz view abandons any
// session in progress without recording an attempt.
func (m *Machine) NavigateTo(ctx context.Context, section string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := sectionViews[section]
	if !ok {
		return fmt.Errorf("unknown section %q", section)
	}

	switch target {
	case ViewCourse, ViewQuiz:
		if m.nav.CourseID == nil {
			target = ViewDashboard
			break
		}
		crs, err := m.cat.Course(*m.nav.CourseID)
		if err != nil || (target == ViewQuiz && len(crs.Quiz.Questions) == 0) {
			target = ViewDashboard
		}
	case ViewLesson:
		if m.nav.CourseID == nil || m.nav.LessonID == nil {
			target = ViewDashboard
			break
		}
		if _, err := m.cat.Lesson(*m.nav.CourseID, *m.nav.LessonID); err != nil {
			target = ViewDashboard
		}
	}

	if target != ViewQuiz {
		m.quiz = nil
		m.result = nil
	}
	if target != ViewLesson {
		m.nav.LessonID = nil
	}
	if target == ViewQuiz && m.quiz == nil && m.result == nil {
		crs, _ := m.cat.Course(*m.nav.CourseID)
		m.quiz = newQuizSession(crs)
	}
	if target == ViewWelcome {
		// Re-entering welcome re-arms the get-started control.
		m.nav.ShowWelcome = true
	}
	m.nav.View = target
	return m.commitLocked(ctx, "navigate", map[string]string{"section": section, "view": string(target)})
}

// commitLocked persists the post-transition snapshot and appends to the
// audit log. Must be called with the mutex held.
func (m *Machine) commitLocked(ctx context.Context, typ string, data any) error {
	if err := m.store.Save(ctx, m.profile, m.snapshotLocked()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if m.audit != nil {
		_ = m.audit.Transition(ctx, m.profile, typ, data)
	}
	return nil
}

func (m *Machine) snapshotLocked() snapshot.Snapshot {
	s := snapshot.Default()
	s.View = string(m.nav.View)
	s.ShowWelcome = m.nav.ShowWelcome
	if m.nav.CourseID != nil {
		v := *m.nav.CourseID
		s.CurrentCourse = &v
	}
	if m.nav.LessonID != nil {
		v := *m.nav.LessonID
		s.CurrentLesson = &v
	}
	m.tracker.Export(&s)
	s.SavedAt = m.now()
	return s
}

// Nav returns a copy of the navigation state.
func (m *Machine) Nav() NavState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nav.clone()
}

// Quiz returns the renderer's view of the active quiz, with the answer key
// stripped, or false when the quiz view is not active.
func (m *Machine) Quiz() (QuizView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nav.View != ViewQuiz {
		return QuizView{}, false
	}
	if m.quiz == nil {
		if m.result == nil {
			return QuizView{}, false
		}
		return QuizView{CourseID: m.result.CourseID, Total: m.result.Total, Index: m.result.Total, Finished: true, Result: m.result}, true
	}
	q := m.quiz.Questions[m.quiz.Index]
	return QuizView{
		CourseID:    m.quiz.CourseID,
		Index:       m.quiz.Index,
		Total:       len(m.quiz.Questions),
		Question:    catalog.Question{Prompt: q.Prompt, Options: append([]string(nil), q.Options...)},
		ActionLabel: m.quiz.ActionLabel(),
	}, true
}

// ProgressReport is the dashboard read model.
type ProgressReport struct {
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	Percent          float64 `json:"percent"`
}

func (m *Machine) Progress() ProgressReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := m.cat.TotalLessons()
	return ProgressReport{
		CompletedLessons: m.tracker.CompletedCount(),
		TotalLessons:     total,
		Percent:          m.tracker.Percent(total),
	}
}

func (m *Machine) LessonCompleted(courseID, lessonID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Completed(courseID, lessonID)
}

func (m *Machine) Attempts(courseID int) []snapshot.Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Attempts(courseID)
}

func (m *Machine) Certificate() progress.CertificateReport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Certificate(m.cat.TotalLessons())
}
