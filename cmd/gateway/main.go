package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	api "github.com/quizdeck/quizdeck/internal/api/http"
	"github.com/quizdeck/quizdeck/internal/auth"
	"github.com/quizdeck/quizdeck/internal/config"
	"github.com/quizdeck/quizdeck/internal/db"
	"github.com/quizdeck/quizdeck/internal/quiz"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := quiz.NewSQLStore(dbh, cfg.DBDriver)

	authSvc := auth.NewAuthService(cfg.JWTSecret, cfg.TokenTTL)

	if err := bootstrapAdmin(ctx, dbh, cfg); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	r := api.NewRouter(dbh, store, authSvc, cfg.CORSOrigins)

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// bootstrapAdmin creates the configured admin account on first start so a
// fresh database has at least one identity that can author quizzes. Skipped
// when no password hash is configured or the username is taken.
func bootstrapAdmin(ctx context.Context, dbh *sql.DB, cfg config.Config) error {
	if cfg.BootstrapAdminUser == "" || cfg.BootstrapAdminPassHash == "" {
		return nil
	}
	var exists int
	err := dbh.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username=$1`, cfg.BootstrapAdminUser).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = dbh.ExecContext(ctx,
		`INSERT INTO users (id,username,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5)`,
		uuid.NewString(), cfg.BootstrapAdminUser, cfg.BootstrapAdminPassHash, auth.RoleAdmin, time.Now().Unix())
	if err == nil {
		log.Printf("bootstrap admin %q created", cfg.BootstrapAdminUser)
	}
	return err
}
