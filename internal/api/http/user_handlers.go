package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/apierr"
	"github.com/quizdeck/quizdeck/internal/auth"
)

type userListRow struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt"`
}

// GET /users (admin)
func ListUsersHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.QueryContext(r.Context(),
			`SELECT id,username,role,created_at FROM users ORDER BY created_at DESC, username`)
		if err != nil {
			writeError(w, apierr.Internal(err))
			return
		}
		defer rows.Close()

		out := []userListRow{}
		for rows.Next() {
			var u userListRow
			if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.CreatedAt); err != nil {
				writeError(w, apierr.Internal(err))
				return
			}
			out = append(out, u)
		}
		if err := rows.Err(); err != nil {
			writeError(w, apierr.Internal(err))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": out})
	}
}

type updateUserRoleReq struct {
	Role string `json:"role"`
}

// PATCH /users/{userID} (admin) — change a user's role. Administrators may
// never target their own subject id; that check runs before anything else
// so no partial work happens on a self-change attempt.
func UpdateUserRoleHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := auth.IdentityFromContext(r.Context())
		target := chi.URLParam(r, "userID")
		if target == "" {
			writeError(w, apierr.New(apierr.CodeValidation, "Missing user id"))
			return
		}
		if target == ident.SubjectID {
			writeError(w, apierr.New(apierr.CodeSelfRoleChange, "Cannot change your own role"))
			return
		}

		var req updateUserRoleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.New(apierr.CodeValidation, "Invalid role value"))
			return
		}
		role := strings.TrimSpace(req.Role)
		if role != auth.RoleUser && role != auth.RoleAdmin {
			writeError(w, apierr.New(apierr.CodeValidation, "Invalid role value"))
			return
		}

		var u userView
		err := db.QueryRowContext(r.Context(),
			`SELECT id,username FROM users WHERE id=$1`, target).Scan(&u.ID, &u.Username)
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, apierr.New(apierr.CodeNotFound, "User not found"))
			return
		}
		if err != nil {
			writeError(w, apierr.Internal(err))
			return
		}

		if _, err := db.ExecContext(r.Context(),
			`UPDATE users SET role=$2 WHERE id=$1`, target, role); err != nil {
			writeError(w, apierr.Internal(err))
			return
		}
		u.Role = role
		writeJSON(w, http.StatusOK, map[string]any{"user": u})
	}
}
