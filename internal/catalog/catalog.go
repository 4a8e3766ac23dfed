package catalog

import "fmt"

type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  int      `json:"answer,omitempty"`
}

type Quiz struct {
	Questions []Question `json:"questions"`
}

type Lesson struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Course is immutable after the catalog is built. Lesson ids are unique
// within their course only, not globally.
type Course struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Lessons     []Lesson `json:"lessons"`
	Quiz        Quiz     `json:"quiz"`
}

type Catalog struct {
	courses []Course
	byID    map[int]int // course id -> index into courses
}

// New validates the course list and builds the lookup index.
func New(courses []Course) (*Catalog, error) {
	c := &Catalog{courses: courses, byID: make(map[int]int, len(courses))}
	for i, crs := range courses {
		if _, dup := c.byID[crs.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate course id %d", crs.ID)
		}
		c.byID[crs.ID] = i

		seen := map[int]bool{}
		for _, l := range crs.Lessons {
			if seen[l.ID] {
				return nil, fmt.Errorf("catalog: course %d: duplicate lesson id %d", crs.ID, l.ID)
			}
			seen[l.ID] = true
		}
		for qi, q := range crs.Quiz.Questions {
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("catalog: course %d question %d: need at least 2 options, got %d", crs.ID, qi, len(q.Options))
			}
			if q.Answer < 0 || q.Answer >= len(q.Options) {
				return nil, fmt.Errorf("catalog: course %d question %d: answer index %d out of range", crs.ID, qi, q.Answer)
			}
		}
	}
	return c, nil
}

func (c *Catalog) Courses() []Course { return c.courses }

func (c *Catalog) Course(id int) (Course, error) {
	i, ok := c.byID[id]
	if !ok {
		return Course{}, fmt.Errorf("catalog: course %d not found", id)
	}
	return c.courses[i], nil
}

func (c *Catalog) Lesson(courseID, lessonID int) (Lesson, error) {
	crs, err := c.Course(courseID)
	if err != nil {
		return Lesson{}, err
	}
	for _, l := range crs.Lessons {
		if l.ID == lessonID {
			return l, nil
		}
	}
	return Lesson{}, fmt.Errorf("catalog: course %d has no lesson %d", courseID, lessonID)
}

// TotalLessons is the denominator for overall progress.
func (c *Catalog) TotalLessons() int {
	n := 0
	for _, crs := range c.courses {
		n += len(crs.Lessons)
	}
	return n
}
