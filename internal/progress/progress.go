package progress

import (
	"sort"
	"strconv"
	"time"

	"github.com/learntrack/learntrack/internal/snapshot"
)

// Tracker owns lesson completion flags and per-course quiz attempt history.
// Completion is recorded the moment a lesson is entered; attempts are
// append-only and never rewritten.
type Tracker struct {
	completed map[string]bool
	attempts  map[int][]snapshot.Attempt
}

func NewTracker() *Tracker {
	return &Tracker{
		completed: map[string]bool{},
		attempts:  map[int][]snapshot.Attempt{},
	}
}

// Restore rebuilds a tracker from a validated snapshot.
func Restore(s snapshot.Snapshot) *Tracker {
	t := NewTracker()
	for k, v := range s.Progress {
		if v {
			t.completed[k] = true
		}
	}
	for courseKey, atts := range s.AttemptHistory {
		id, err := strconv.Atoi(courseKey)
		if err != nil {
			continue // Validate already rejected these; belt and braces
		}
		t.attempts[id] = append([]snapshot.Attempt(nil), atts...)
	}
	return t
}

func (t *Tracker) MarkLessonComplete(courseID, lessonID int) {
	t.completed[snapshot.ProgressKey(courseID, lessonID)] = true
}

func (t *Tracker) Completed(courseID, lessonID int) bool {
	return t.completed[snapshot.ProgressKey(courseID, lessonID)]
}

func (t *Tracker) CompletedCount() int {
	n := 0
	for _, v := range t.completed {
		if v {
			n++
		}
	}
	return n
}

// CompletedInCourse counts completed lessons for one course.
func (t *Tracker) CompletedInCourse(courseID int) int {
	n := 0
	for k, v := range t.completed {
		if !v {
			continue
		}
		cid, _, err := snapshot.SplitProgressKey(k)
		if err == nil && cid == courseID {
			n++
		}
	}
	return n
}

func (t *Tracker) RecordAttempt(courseID, score int, at time.Time) {
	t.attempts[courseID] = append(t.attempts[courseID], snapshot.Attempt{Score: score, Date: at})
}

// Attempts returns a copy; callers must not be able to rewrite history.
func (t *Tracker) Attempts(courseID int) []snapshot.Attempt {
	return append([]snapshot.Attempt(nil), t.attempts[courseID]...)
}

// Percent is the overall completion percentage. An empty catalog is defined
// as zero percent.
func (t *Tracker) Percent(totalLessons int) float64 {
	if totalLessons == 0 {
		return 0
	}
	return 100 * float64(t.CompletedCount()) / float64(totalLessons)
}

// Eligible reports whether every lesson in the catalog has been completed.
// Completion count cannot exceed the total (keys are deduplicated), so >=
// and == are equivalent; >= is used for robustness.
func (t *Tracker) Eligible(totalLessons int) bool {
	return totalLessons > 0 && t.CompletedCount() >= totalLessons
}

// Export writes the tracker into snapshot form.
func (t *Tracker) Export(s *snapshot.Snapshot) {
	s.Progress = make(map[string]bool, len(t.completed))
	for k, v := range t.completed {
		s.Progress[k] = v
	}
	s.AttemptHistory = make(map[string][]snapshot.Attempt, len(t.attempts))
	ids := make([]int, 0, len(t.attempts))
	for id := range t.attempts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		s.AttemptHistory[strconv.Itoa(id)] = append([]snapshot.Attempt(nil), t.attempts[id]...)
	}
}
