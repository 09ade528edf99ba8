package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/quizdeck/quizdeck/internal/apierr"
	"github.com/quizdeck/quizdeck/internal/auth"
)

const bcryptCost = 10

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /auth/register
func RegisterHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.New(apierr.CodeValidation, "Username and password are required"))
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" || strings.TrimSpace(req.Password) == "" {
			writeError(w, apierr.New(apierr.CodeValidation, "Username and password cannot be empty"))
			return
		}
		if len(req.Password) < 4 {
			writeError(w, apierr.New(apierr.CodeValidation, "Password must be at least 4 characters"))
			return
		}

		var exists int
		err := db.QueryRowContext(r.Context(),
			`SELECT 1 FROM users WHERE username=$1`, username).Scan(&exists)
		if err == nil {
			writeError(w, apierr.New(apierr.CodeUsernameExists, "Username already exists"))
			return
		}
		if !errors.Is(err, sql.ErrNoRows) {
			writeError(w, apierr.Internal(err))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			writeError(w, apierr.Internal(err))
			return
		}
		u := userView{ID: uuid.NewString(), Username: username, Role: auth.RoleUser}
		if _, err := db.ExecContext(r.Context(),
			`INSERT INTO users (id,username,password_hash,role,created_at) VALUES ($1,$2,$3,$4,$5)`,
			u.ID, u.Username, string(hash), u.Role, time.Now().Unix()); err != nil {
			writeError(w, apierr.Internal(err))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "User registered successfully",
			"user":    u,
		})
	}
}

// POST /auth/login
func LoginHandler(db *sql.DB, authSvc *auth.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.New(apierr.CodeValidation, "Username and password are required"))
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" || strings.TrimSpace(req.Password) == "" {
			writeError(w, apierr.New(apierr.CodeValidation, "Username and password cannot be empty"))
			return
		}

		var u userView
		var hash string
		err := db.QueryRowContext(r.Context(),
			`SELECT id,username,password_hash,role FROM users WHERE username=$1`, username).
			Scan(&u.ID, &u.Username, &hash, &u.Role)
		if errors.Is(err, sql.ErrNoRows) {
			// same answer as a bad password
			writeError(w, apierr.New(apierr.CodeInvalidCredential, "Invalid username or password"))
			return
		}
		if err != nil {
			writeError(w, apierr.Internal(err))
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
			writeError(w, apierr.New(apierr.CodeInvalidCredential, "Invalid username or password"))
			return
		}

		token, err := authSvc.Issue(u.ID, u.Username, u.Role)
		if err != nil {
			writeError(w, apierr.Internal(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": u})
	}
}
