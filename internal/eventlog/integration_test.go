package eventlog_test

import (
	"context"
	"testing"

	"github.com/learntrack/learntrack/internal/catalog"
	"github.com/learntrack/learntrack/internal/db"
	"github.com/learntrack/learntrack/internal/eventlog"
	"github.com/learntrack/learntrack/internal/session"
	"github.com/learntrack/learntrack/internal/snapshot"
)

// End-to-end over a real sqlite database: machine transitions persist
// snapshots and append audit rows through the same schema main.go boots.
func Test_EndToEnd_SQLite(t *testing.T) {
	ctx := context.Background()

	dbh, err := db.Open(ctx, db.DriverSQLite, "file:eventlog_test.db?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	defer dbh.Close()

	cat, err := catalog.Load("") // built-in seed content
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	store := snapshot.NewSQLStore(dbh)
	repo := eventlog.NewRepo(dbh)
	m := session.NewMachine("local", cat, store, repo)
	if err := m.Restore(ctx); err != nil {
		t.Fatalf("restore empty db: %v", err)
	}

	steps := []func() error{
		func() error { return m.GetStarted(ctx) },
		func() error { return m.SelectCourse(ctx, 1) },
		func() error { return m.SelectLesson(ctx, 1) },
		func() error { return m.BackToCourse(ctx) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	// Snapshot round trip through the real store.
	restored := session.NewMachine("local", cat, store, nil)
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if nav := restored.Nav(); nav.View != session.ViewCourse || nav.CourseID == nil || *nav.CourseID != 1 {
		t.Fatalf("restored nav: %+v", nav)
	}
	if !restored.LessonCompleted(1, 1) {
		t.Fatalf("restored progress lost lesson 1-1")
	}

	// Audit trail: one row per accepted transition, newest first.
	events, err := repo.Recent(ctx, "local", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != len(steps) {
		t.Fatalf("events = %d, want %d", len(events), len(steps))
	}
	if events[0].Type != "back_to_course" || events[len(events)-1].Type != "get_started" {
		t.Fatalf("event order wrong: first=%s last=%s", events[0].Type, events[len(events)-1].Type)
	}
	for _, e := range events {
		if e.ID == "" || e.Profile != "local" || e.CreatedAt == 0 {
			t.Fatalf("malformed event: %+v", e)
		}
	}

	// Unknown profile reads empty, not an error.
	none, err := repo.Recent(ctx, "nobody", 10)
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown profile: %v %v", none, err)
	}
}
