package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SchemaVersion is bumped whenever the persisted shape changes. Snapshots
// written by a newer build are rejected rather than blind-merged.
const SchemaVersion = 1

var ErrNotFound = errors.New("snapshot not found")

// Attempt is one finished quiz run. Records are append-only.
type Attempt struct {
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

// Snapshot is the single persisted record per learner profile: navigation
// state plus progress and attempt history. The ephemeral quiz session is
// deliberately absent.
type Snapshot struct {
	SchemaVersion  int                  `json:"schema_version"`
	View           string               `json:"view"`
	ShowWelcome    bool                 `json:"show_welcome"`
	CurrentCourse  *int                 `json:"current_course"`
	CurrentLesson  *int                 `json:"current_lesson"`
	Progress       map[string]bool      `json:"progress"`
	AttemptHistory map[string][]Attempt `json:"attempt_history"`
	SavedAt        time.Time            `json:"saved_at"`
}

// Default is the state of a brand-new learner: welcome screen, nothing
// completed.
func Default() Snapshot {
	return Snapshot{
		SchemaVersion:  SchemaVersion,
		View:           "welcome",
		ShowWelcome:    true,
		Progress:       map[string]bool{},
		AttemptHistory: map[string][]Attempt{},
	}
}

var knownViews = map[string]bool{
	"welcome": true, "dashboard": true, "course": true,
	"lesson": true, "quiz": true, "certificate": true,
}

// Validate rejects records this build cannot interpret. Keys present in the
// record already overwrote defaults during decode; validation is the gate
// that keeps a malformed blob from becoming live state.
func (s Snapshot) Validate() error {
	if s.SchemaVersion <= 0 || s.SchemaVersion > SchemaVersion {
		return fmt.Errorf("snapshot: unsupported schema version %d", s.SchemaVersion)
	}
	if !knownViews[s.View] {
		return fmt.Errorf("snapshot: unknown view %q", s.View)
	}
	if s.CurrentLesson != nil && s.View != "lesson" {
		return fmt.Errorf("snapshot: current_lesson set outside lesson view")
	}
	switch s.View {
	case "course", "lesson", "quiz":
		if s.CurrentCourse == nil {
			return fmt.Errorf("snapshot: view %q without current_course", s.View)
		}
	}
	for key := range s.Progress {
		if _, _, err := SplitProgressKey(key); err != nil {
			return err
		}
	}
	for courseKey, attempts := range s.AttemptHistory {
		if _, err := strconv.Atoi(courseKey); err != nil {
			return fmt.Errorf("snapshot: attempt history key %q is not a course id", courseKey)
		}
		for _, a := range attempts {
			if a.Score < 0 {
				return fmt.Errorf("snapshot: negative score for course %s", courseKey)
			}
		}
	}
	return nil
}

// Decode restores a snapshot from its serialized form, merging shallowly
// over defaults: keys present in the record overwrite, missing keys keep
// the default value.
func Decode(data []byte) (Snapshot, error) {
	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode: %w", err)
	}
	if s.Progress == nil {
		s.Progress = map[string]bool{}
	}
	if s.AttemptHistory == nil {
		s.AttemptHistory = map[string][]Attempt{}
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// ProgressKey is the composite completion key, "{courseID}-{lessonID}".
func ProgressKey(courseID, lessonID int) string {
	return fmt.Sprintf("%d-%d", courseID, lessonID)
}

func SplitProgressKey(key string) (courseID, lessonID int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("snapshot: malformed progress key %q", key)
	}
	if courseID, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("snapshot: malformed progress key %q", key)
	}
	if lessonID, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("snapshot: malformed progress key %q", key)
	}
	return courseID, lessonID, nil
}

// Store persists one snapshot per learner profile. Save fully rewrites the
// record; implementations serialize writers per profile.
type Store interface {
	Save(ctx context.Context, profile string, s Snapshot) error
	Load(ctx context.Context, profile string) (Snapshot, error)
}
