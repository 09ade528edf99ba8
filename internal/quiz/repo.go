package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence gateway. Implementations must make CreateQuiz and
// CreateAttempt atomic: a reader never observes a partial quiz or attempt.
type Store interface {
	// CreateQuiz persists the quiz with all questions and options in one
	// logical unit.
	CreateQuiz(ctx context.Context, q Quiz) (Quiz, error)
	// GetQuiz returns the quiz with questions in order. With
	// includeAnswers=false the result is redacted for delivery.
	GetQuiz(ctx context.Context, id string, includeAnswers bool) (Quiz, error)
	// ListQuizzes returns all quizzes newest-first, decorated with the
	// viewer's latest result.
	ListQuizzes(ctx context.Context, viewerID string) ([]QuizSummary, error)

	// CreateAttempt appends a graded attempt. Attempts are never updated.
	CreateAttempt(ctx context.Context, a Attempt) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	ListAttemptsBySubject(ctx context.Context, userID string) ([]AttemptSummary, error)
}

// FromDraft builds a persistable Quiz from validated authoring input,
// assigning record ids and 1-based question order.
func FromDraft(d Draft) Quiz {
	q := Quiz{
		ID:          uuid.NewString(),
		Title:       d.Title,
		Description: d.Description,
		Questions:   make([]Question, len(d.Questions)),
	}
	for i, qd := range d.Questions {
		question := Question{
			ID:      uuid.NewString(),
			Text:    qd.Text,
			Order:   i + 1,
			Options: make([]Option, len(qd.Options)),
		}
		for j, od := range qd.Options {
			question.Options[j] = Option{ID: uuid.NewString(), Text: od.Text, IsCorrect: od.IsCorrect}
		}
		q.Questions[i] = question
	}
	return q
}

// NewAttempt stamps a graded result into an attempt record owned by userID.
func NewAttempt(userID, quizID string, res GradeResult) Attempt {
	return Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		QuizID:    quizID,
		Score:     res.Score,
		Total:     res.Total,
		Answers:   res.Answers,
		CreatedAt: time.Now().Unix(),
	}
}
