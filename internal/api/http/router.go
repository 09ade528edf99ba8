package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/quizdeck/quizdeck/internal/auth"
	"github.com/quizdeck/quizdeck/internal/quiz"
	"github.com/quizdeck/quizdeck/internal/rbac"
)

// NewRouter mounts the full API surface: public auth endpoints, the
// authenticated group behind JWT + permission checks, and the admin group
// behind the admin policy.
func NewRouter(db *sql.DB, store quiz.Store, authSvc *auth.AuthService, corsOrigins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/register", RegisterHandler(db))
	r.Post("/auth/login", LoginHandler(db, authSvc))

	// Authenticated API (JWT → Identity in context → permission check)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", ListQuizzesHandler(store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", GetQuizHandler(store))

		pr.With(rbac.Require("attempt:create")).
			Post("/attempts", SubmitAttemptHandler(store))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/attempts", ListMyAttemptsHandler(store))
		pr.With(rbac.Require("attempt:view-own")).
			Get("/attempts/{attemptID}", GetAttemptHandler(store))
	})

	// Admin API
	r.Group(func(ar chi.Router) {
		ar.Use(auth.AdminMiddleware(authSvc))

		ar.Post("/quizzes", CreateQuizHandler(store))
		ar.Get("/quizzes/{quizID}/full", GetQuizFullHandler(store))
		ar.Get("/users", ListUsersHandler(db))
		ar.Patch("/users/{userID}", UpdateUserRoleHandler(db))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
