package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/apierr"
	"github.com/quizdeck/quizdeck/internal/auth"
	"github.com/quizdeck/quizdeck/internal/quiz"
)

type submitAttemptReq struct {
	QuizID  string                 `json:"quizId"`
	Answers []quiz.SubmittedAnswer `json:"answers"`
}

type attemptView struct {
	ID             string              `json:"id"`
	Score          int                 `json:"score"`
	Total          int                 `json:"total"`
	CorrectCount   int                 `json:"correctCount"`
	IncorrectCount int                 `json:"incorrectCount"`
	Percentage     int                 `json:"percentage"`
	CreatedAt      int64               `json:"createdAt"`
	Answers        []quiz.GradedAnswer `json:"answers,omitempty"`
	Quiz           *quizRef            `json:"quiz,omitempty"`
}

type quizRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// POST /attempts — grade the submission against the stored quiz and persist
// the result in one append-only write.
func SubmitAttemptHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := auth.IdentityFromContext(r.Context())

		var req submitAttemptReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apierr.New(apierr.CodeValidation, "Quiz ID and answers are required"))
			return
		}
		if req.QuizID == "" || req.Answers == nil {
			writeError(w, apierr.New(apierr.CodeValidation, "Quiz ID and answers are required"))
			return
		}
		for _, a := range req.Answers {
			if a.QuestionID == "" || a.OptionID == "" {
				writeError(w, apierr.New(apierr.CodeValidation, "Each answer needs questionId and optionId"))
				return
			}
		}

		// authoritative option set, correctness included
		q, err := store.GetQuiz(r.Context(), req.QuizID, true)
		if err != nil {
			writeError(w, err)
			return
		}

		res := quiz.Grade(q, req.Answers)
		attempt, err := store.CreateAttempt(r.Context(), quiz.NewAttempt(ident.SubjectID, q.ID, res))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"attempt": attemptView{
			ID:             attempt.ID,
			Score:          attempt.Score,
			Total:          attempt.Total,
			CorrectCount:   attempt.Score,
			IncorrectCount: attempt.Total - attempt.Score,
			Percentage:     quiz.Percentage(attempt.Score, attempt.Total),
			CreatedAt:      attempt.CreatedAt,
		}})
	}
}

// GET /attempts — the caller's own history, newest first.
func ListMyAttemptsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := auth.IdentityFromContext(r.Context())
		list, err := store.ListAttemptsBySubject(r.Context(), ident.SubjectID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempts": list})
	}
}

// GET /attempts/{attemptID} — owner-only, regardless of role.
func GetAttemptHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, _ := auth.IdentityFromContext(r.Context())

		attempt, err := store.GetAttempt(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			writeError(w, err)
			return
		}
		if attempt.UserID != ident.SubjectID {
			writeError(w, apierr.New(apierr.CodeForbidden, "Access denied"))
			return
		}

		view := attemptView{
			ID:             attempt.ID,
			Score:          attempt.Score,
			Total:          attempt.Total,
			CorrectCount:   attempt.Score,
			IncorrectCount: attempt.Total - attempt.Score,
			Percentage:     quiz.Percentage(attempt.Score, attempt.Total),
			CreatedAt:      attempt.CreatedAt,
			Answers:        attempt.Answers,
		}
		if q, err := store.GetQuiz(r.Context(), attempt.QuizID, false); err == nil {
			view.Quiz = &quizRef{ID: q.ID, Title: q.Title, Description: q.Description}
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempt": view})
	}
}
