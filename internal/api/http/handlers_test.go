package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/learntrack/learntrack/internal/api/http"
	authmw "github.com/learntrack/learntrack/internal/auth/middleware"
	"github.com/learntrack/learntrack/internal/catalog"
	"github.com/learntrack/learntrack/internal/rbac"
	"github.com/learntrack/learntrack/internal/session"
	"github.com/learntrack/learntrack/internal/snapshot"
)

// newTestServer wires the protected API exactly as main.go does, over a
// memory snapshot store and a 2x2 catalog (4 lessons total).
func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	cat, err := catalog.New([]catalog.Course{
		{
			ID: 1, Title: "First",
			Lessons: []catalog.Lesson{{ID: 1, Title: "1.1"}, {ID: 2, Title: "1.2"}},
			Quiz: catalog.Quiz{Questions: []catalog.Question{
				{Prompt: "q1", Options: []string{"a", "b"}, Answer: 0},
				{Prompt: "q2", Options: []string{"a", "b"}, Answer: 1},
			}},
		},
		{
			ID: 2, Title: "Second",
			Lessons: []catalog.Lesson{{ID: 1, Title: "2.1"}, {ID: 2, Title: "2.2"}},
			Quiz: catalog.Quiz{Questions: []catalog.Question{
				{Prompt: "q", Options: []string{"a", "b"}, Answer: 1},
			}},
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}

	machine := session.NewMachine("local", cat, snapshot.NewMemoryStore(), nil)
	authSvc := authmw.NewAuthService("test-secret")

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))

		pr.With(rbac.Require("catalog:view")).
			Get("/catalog", api.ListCoursesHandler(cat))
		pr.With(rbac.Require("catalog:view")).
			Get("/catalog/courses/{courseID}", api.GetCourseHandler(cat))

		pr.With(rbac.Require("session:view")).
			Get("/session", api.GetSessionHandler(machine))
		pr.With(rbac.Require("session:event")).Route("/session", func(sr chi.Router) {
			sr.Post("/start", api.GetStartedHandler(machine))
			sr.Post("/courses/{courseID}", api.SelectCourseHandler(machine))
			sr.Post("/lessons/{lessonID}", api.SelectLessonHandler(machine))
			sr.Post("/quiz", api.TakeQuizHandler(machine))
			sr.Post("/quiz/answer", api.SubmitAnswerHandler(machine))
			sr.Post("/back/course", api.BackToCourseHandler(machine))
			sr.Post("/back/dashboard", api.BackToDashboardHandler(machine))
			sr.Post("/navigate", api.NavigateHandler(machine))
		})

		pr.With(rbac.Require("progress:view")).
			Get("/progress", api.GetProgressHandler(machine))
		pr.With(rbac.Require("progress:view")).
			Get("/progress/attempts/{courseID}", api.ListAttemptsHandler(machine))
		pr.With(rbac.Require("certificate:view")).
			Get("/certificate", api.GetCertificateHandler(machine))
		pr.With(rbac.Require("certificate:download")).
			Post("/certificate/download", api.DownloadCertificateHandler(machine))
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	tok, err := authSvc.IssueJWT("learner", "learner")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return ts, tok
}

func do(t *testing.T, ts *httptest.Server, tok, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		buf, _ := json.Marshal(body)
		rd = bytes.NewReader(buf)
	} else {
		rd = bytes.NewReader([]byte(`{}`))
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func post(t *testing.T, ts *httptest.Server, tok, path string, body any, wantStatus int) []byte {
	t.Helper()
	resp, buf := do(t, ts, tok, http.MethodPost, path, body)
	if resp.StatusCode != wantStatus {
		t.Fatalf("POST %s = %d, want %d (body %s)", path, resp.StatusCode, wantStatus, buf)
	}
	return buf
}

func get(t *testing.T, ts *httptest.Server, tok, path string, out any) {
	t.Helper()
	resp, buf := do(t, ts, tok, http.MethodGet, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s = %d (body %s)", path, resp.StatusCode, buf)
	}
	if out != nil {
		if err := json.Unmarshal(buf, out); err != nil {
			t.Fatalf("GET %s: bad json: %v", path, err)
		}
	}
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/session")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	ts, tok := newTestServer(t)

	var list []map[string]any
	get(t, ts, tok, "/catalog", &list)
	if len(list) != 2 {
		t.Fatalf("catalog size = %d, want 2", len(list))
	}

	var course struct {
		Quiz struct {
			Questions []map[string]any `json:"questions"`
		} `json:"quiz"`
	}
	get(t, ts, tok, "/catalog/courses/1", &course)
	if len(course.Quiz.Questions) != 2 {
		t.Fatalf("quiz length = %d", len(course.Quiz.Questions))
	}
	for _, q := range course.Quiz.Questions {
		if _, leaked := q["answer"]; leaked {
			t.Fatalf("answer key leaked: %v", q)
		}
	}

	resp, _ := do(t, ts, tok, http.MethodGet, "/catalog/courses/99", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing course = %d, want 404", resp.StatusCode)
	}
}

// TestCertificateWalk drives the full learner journey: visit 3 of 4 lessons,
// confirm ineligibility, visit the 4th, then hit the stubbed download.
func TestCertificateWalk(t *testing.T) {
	ts, tok := newTestServer(t)

	post(t, ts, tok, "/session/start", nil, 200)

	visit := func(courseID, lessonID int) {
		t.Helper()
		post(t, ts, tok, fmt.Sprintf("/session/courses/%d", courseID), nil, 200)
		post(t, ts, tok, fmt.Sprintf("/session/lessons/%d", lessonID), nil, 200)
		post(t, ts, tok, "/session/back/course", nil, 200)
		post(t, ts, tok, "/session/navigate", map[string]string{"section": "courses"}, 200)
	}

	// Download before earning it is refused, not crashed.
	post(t, ts, tok, "/certificate/download", nil, http.StatusConflict)

	visit(1, 1)
	visit(1, 2)
	visit(2, 1)

	var cert struct {
		Eligible bool    `json:"eligible"`
		Percent  float64 `json:"percent"`
	}
	get(t, ts, tok, "/certificate", &cert)
	if cert.Eligible || cert.Percent != 75 {
		t.Fatalf("after 3 of 4 lessons: %+v", cert)
	}

	visit(2, 2)
	get(t, ts, tok, "/certificate", &cert)
	if !cert.Eligible || cert.Percent != 100 {
		t.Fatalf("after all lessons: %+v", cert)
	}

	// Earned: the download reports not-implemented, never a silent success.
	post(t, ts, tok, "/certificate/download", nil, http.StatusNotImplemented)
}

func TestQuizOverHTTP(t *testing.T) {
	ts, tok := newTestServer(t)

	post(t, ts, tok, "/session/start", nil, 200)
	post(t, ts, tok, "/session/courses/1", nil, 200)

	var qv struct {
		ActionLabel string `json:"action_label"`
		Finished    bool   `json:"finished"`
		Result      *struct {
			Score int `json:"score"`
			Total int `json:"total"`
		} `json:"result"`
	}
	buf := post(t, ts, tok, "/session/quiz", nil, 200)
	if err := json.Unmarshal(buf, &qv); err != nil {
		t.Fatalf("quiz view: %v", err)
	}
	if qv.ActionLabel != "Next" {
		t.Fatalf("first label = %q, want Next", qv.ActionLabel)
	}

	// Empty body: control stays inert.
	buf = post(t, ts, tok, "/session/quiz/answer", map[string]any{}, 200)
	_ = json.Unmarshal(buf, &qv)
	if qv.ActionLabel != "Next" {
		t.Fatalf("inert submit advanced the quiz: %+v", qv)
	}

	buf = post(t, ts, tok, "/session/quiz/answer", map[string]int{"selected": 0}, 200)
	_ = json.Unmarshal(buf, &qv)
	if qv.ActionLabel != "Submit" {
		t.Fatalf("last label = %q, want Submit", qv.ActionLabel)
	}

	buf = post(t, ts, tok, "/session/quiz/answer", map[string]int{"selected": 1}, 200)
	qv.Result = nil
	_ = json.Unmarshal(buf, &qv)
	if !qv.Finished || qv.Result == nil || qv.Result.Score != 2 {
		t.Fatalf("finished view: %+v", qv)
	}

	var attempts []map[string]any
	get(t, ts, tok, "/progress/attempts/1", &attempts)
	if len(attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(attempts))
	}

	post(t, ts, tok, "/session/back/dashboard", nil, 200)

	// Out-of-state event over HTTP: 409, nothing mutated.
	post(t, ts, tok, "/session/lessons/1", nil, http.StatusConflict)
	var prog struct {
		CompletedLessons int `json:"completed_lessons"`
	}
	get(t, ts, tok, "/progress", &prog)
	if prog.CompletedLessons != 0 {
		t.Fatalf("rejected event mutated progress: %+v", prog)
	}
}

func TestUnknownRoleIsForbidden(t *testing.T) {
	ts, _ := newTestServer(t)
	authSvc := authmw.NewAuthService("test-secret")
	tok, err := authSvc.IssueJWT("someone", "auditor")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	resp, _ := do(t, ts, tok, http.MethodGet, "/session", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unknown role = %d, want 403", resp.StatusCode)
	}
}
