package session

import "github.com/learntrack/learntrack/internal/catalog"

// QuizSession is the ephemeral per-quiz state. It lives only while the quiz
// view is active and is never persisted; abandoning the view discards it.
type QuizSession struct {
	CourseID  int
	Questions []catalog.Question
	Index     int
	Score     int
}

func newQuizSession(course catalog.Course) *QuizSession {
	return &QuizSession{
		CourseID:  course.ID,
		Questions: append([]catalog.Question(nil), course.Quiz.Questions...),
	}
}

// ActionLabel is "Submit" on the last question, "Next" otherwise.
func (q *QuizSession) ActionLabel() string {
	if q.Index == len(q.Questions)-1 {
		return "Submit"
	}
	return "Next"
}

// answer scores the current question and advances. Reports whether the
// session is finished.
func (q *QuizSession) answer(selected int) (finished bool) {
	if selected == q.Questions[q.Index].Answer {
		q.Score++
	}
	q.Index++
	return q.Index == len(q.Questions)
}

// QuizResult is the terminal display after a completed session, held until
// the learner returns to the dashboard.
type QuizResult struct {
	CourseID int `json:"course_id"`
	Score    int `json:"score"`
	Total    int `json:"total"`
}

// QuizView is the read model served to the renderer. The answer key is
// stripped from the question.
type QuizView struct {
	CourseID    int              `json:"course_id"`
	Index       int              `json:"index"`
	Total       int              `json:"total"`
	Question    catalog.Question `json:"question"`
	ActionLabel string           `json:"action_label"`
	Finished    bool             `json:"finished"`
	Result      *QuizResult      `json:"result,omitempty"`
}
