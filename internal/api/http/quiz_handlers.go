package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/apierr"
	"github.com/quizdeck/quizdeck/internal/auth"
	"github.com/quizdeck/quizdeck/internal/quiz"
)

// POST /quizzes (admin)
func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft quiz.Draft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, apierr.New(apierr.CodeValidation, "Title, description, and questions are required"))
			return
		}
		if err := quiz.ValidateDraft(draft); err != nil {
			writeError(w, err)
			return
		}
		created, err := store.CreateQuiz(r.Context(), quiz.FromDraft(draft))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"quiz": created})
	}
}

// GET /quizzes
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := auth.IdentityFromContext(r.Context())
		list, err := store.ListQuizzes(r.Context(), ident.SubjectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quizzes": list})
	}
}

// GET /quizzes/{quizID} — delivery view, correctness stripped.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"), false)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quiz": q})
	}
}

// GET /quizzes/{quizID}/full (admin) — authoring/review view with answers.
func GetQuizFullHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"), true)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"quiz": q})
	}
}
