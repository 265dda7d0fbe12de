package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/excel-with-hussain/excel-lms/internal/activity"
	api "github.com/excel-with-hussain/excel-lms/internal/api/http"
	auth "github.com/excel-with-hussain/excel-lms/internal/auth/middleware"
	"github.com/excel-with-hussain/excel-lms/internal/catalog"
	"github.com/excel-with-hussain/excel-lms/internal/certificate"
	"github.com/excel-with-hussain/excel-lms/internal/config"
	"github.com/excel-with-hussain/excel-lms/internal/db"
	"github.com/excel-with-hussain/excel-lms/internal/progress"
	"github.com/excel-with-hussain/excel-lms/internal/quiz"
	"github.com/excel-with-hussain/excel-lms/internal/rbac"
	"github.com/excel-with-hussain/excel-lms/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	if err := seedAdmin(ctx, dbh, cfg.SeedAdmin, cfg.SeedAdminPwd); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// --- Stores & services ---
	catalogStore := catalog.NewSQLStore(dbh)
	progressStore := progress.NewSQLStore(dbh)
	attemptStore := quiz.NewSQLStore(dbh)
	engine := quiz.NewEngine(catalogStore, attemptStore)
	certStore := certificate.NewSQLStore(dbh)
	issuer := certificate.NewIssuer(progressStore, certStore)
	alog := activity.NewLog(dbh)

	authSvc := auth.NewAuthService(cfg.AuthSecret, time.Duration(cfg.TokenTTLHrs)*time.Hour)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Auth
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	if cfg.AllowSignup {
		r.Post("/auth/register", auth.RegisterHandler(authSvc, dbh))
	}

	// Public catalog browsing + assets
	r.Get("/courses", api.ListCoursesHandler(catalogStore))
	r.Get("/courses/{courseID}", api.GetCourseHandler(catalogStore))
	r.Get("/modules/{moduleID}", api.GetModuleHandler(catalogStore))
	r.Get("/lessons/{lessonID}", api.GetLessonHandler(catalogStore))
	r.Get("/assets/*", api.GetAssetHandler(bs))

	// Protected API (JWT → role from DB → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.Use(auth.AttachRoleFromDB(dbh))

		pr.Get("/me", api.MeHandler(dbh))

		pr.With(rbac.Require("progress:complete")).
			Post("/lessons/{lessonID}/complete", api.MarkLessonCompleteHandler(progressStore, alog))
		pr.With(rbac.Require("progress:view-own")).
			Get("/progress", api.ListProgressHandler(progressStore))
		pr.With(rbac.Require("progress:view-own")).
			Get("/progress/stats", api.ProgressStatsHandler(progressStore))

		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(catalogStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}/questions", api.GetQuizQuestionsHandler(catalogStore, attemptStore))
		pr.With(rbac.Require("attempt:create")).
			Post("/quizzes/{quizID}/attempts", api.SubmitQuizHandler(engine, alog))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/quizzes/{quizID}/attempts", api.ListQuizAttemptsHandler(attemptStore))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/quizzes/{quizID}/attempts/best", api.BestAttemptHandler(attemptStore))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/attempts", api.ListMyAttemptsHandler(attemptStore))

		pr.With(rbac.Require("certificate:view-own")).
			Get("/certificate", api.GetCertificateHandler(certStore))
		pr.With(rbac.Require("certificate:view-own")).
			Get("/certificate/eligibility", api.EligibilityHandler(issuer))
		pr.With(rbac.Require("certificate:generate")).
			Post("/certificate", api.GenerateCertificateHandler(issuer, alog))

		// Admin surfaces
		pr.Route("/admin", func(adm chi.Router) {
			adm.Use(rbac.Require("catalog:edit"))
			api.MountAdminCatalog(adm, catalogStore)
			adm.Get("/users", api.ListProfilesHandler(dbh))
			adm.Patch("/users/{userID}", api.UpdateUserRoleHandler(dbh))
			adm.Get("/activity", api.RecentActivityHandler(alog))
		})
		pr.With(rbac.Require("catalog:edit")).
			Post("/assets/lessons/{lessonID}", api.UploadLessonAssetHandler(bs))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// seedAdmin creates the bootstrap admin when SEED_ADMIN_PASSWORD is set and
// the username is free.
func seedAdmin(ctx context.Context, dbh *sql.DB, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	var one int
	err := dbh.QueryRowContext(ctx, `SELECT 1 FROM profiles WHERE username=$1`, username).Scan(&one)
	if err == nil {
		return nil // already present
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	phash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO profiles (id,username,email,role,password_hash,created_at)
		 VALUES ($1,$2,NULL,'admin',$3,$4)`,
		uuid.NewString(), username, string(phash), time.Now().Unix())
	return err
}
