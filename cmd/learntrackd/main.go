package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/learntrack/learntrack/internal/api/http"
	"github.com/learntrack/learntrack/internal/auth"
	authmw "github.com/learntrack/learntrack/internal/auth/middleware"
	"github.com/learntrack/learntrack/internal/catalog"
	"github.com/learntrack/learntrack/internal/config"
	"github.com/learntrack/learntrack/internal/db"
	"github.com/learntrack/learntrack/internal/eventlog"
	"github.com/learntrack/learntrack/internal/rbac"
	"github.com/learntrack/learntrack/internal/session"
	"github.com/learntrack/learntrack/internal/snapshot"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// --- Catalog (static, read-only) ---
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	// --- Snapshot store + audit log ---
	var (
		store snapshot.Store
		audit session.Auditor
	)
	switch cfg.SnapshotDriver {
	case "fs":
		store, err = snapshot.NewFSStore(cfg.SnapshotBasePath)
		if err != nil {
			log.Fatalf("snapshot store: %v", err)
		}
	case "memory":
		store = snapshot.NewMemoryStore()
	default: // sql
		var dbh *sql.DB
		dbh, err = db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		store = snapshot.NewSQLStore(dbh)
		audit = eventlog.NewRepo(dbh)
	}

	// --- Session machine (single learner profile) ---
	machine := session.NewMachine(cfg.LearnerID, cat, store, audit)
	if err := machine.Restore(ctx); err != nil {
		log.Printf("snapshot rejected, starting fresh: %v", err)
	}

	// --- Auth (local JWT for offline/dev) ---
	authSvc := authmw.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", authmw.LoginHandler(authSvc, cfg))
	}
	if cfg.EnableGuest {
		r.Post("/auth/guest", auth.GuestLoginHandler(authSvc, cfg))
	}

	// Protected API (JWT → role in context → RBAC)
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

		if repo, ok := audit.(*eventlog.Repo); ok {
			pr.With(rbac.Require("events:list")).
				Get("/admin/events", api.ListEventsHandler(repo, cfg.LearnerID))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, snapshots=%s)", cfg.HTTPAddr, cfg.Mode, cfg.SnapshotDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
