package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/quizdeck/quizdeck/internal/apierr"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) CreateQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Quiz{}, apierr.Internal(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	q.CreatedAt = time.Now().Unix()
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO quizzes (id,title,description,created_at) VALUES ($1,$2,$3,$4)`,
		q.ID, q.Title, q.Description, q.CreatedAt); err != nil {
		return Quiz{}, apierr.Internal(err)
	}
	for _, question := range q.Questions {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO questions (id,quiz_id,text,ord) VALUES ($1,$2,$3,$4)`,
			question.ID, q.ID, question.Text, question.Order); err != nil {
			return Quiz{}, apierr.Internal(err)
		}
		for _, opt := range question.Options {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO options (id,question_id,text,is_correct) VALUES ($1,$2,$3,$4)`,
				opt.ID, question.ID, opt.Text, opt.IsCorrect); err != nil {
				return Quiz{}, apierr.Internal(err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return Quiz{}, apierr.Internal(err)
	}
	return q, nil
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string, includeAnswers bool) (Quiz, error) {
	var q Quiz
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,created_at FROM quizzes WHERE id=$1`, id)
	if err := row.Scan(&q.ID, &q.Title, &q.Description, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, apierr.New(apierr.CodeNotFound, "Quiz not found")
		}
		return Quiz{}, apierr.Internal(err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id,text,ord FROM questions WHERE quiz_id=$1 ORDER BY ord`, id)
	if err != nil {
		return Quiz{}, apierr.Internal(err)
	}
	defer rows.Close()
	byID := map[string]int{}
	for rows.Next() {
		var question Question
		if err := rows.Scan(&question.ID, &question.Text, &question.Order); err != nil {
			return Quiz{}, apierr.Internal(err)
		}
		byID[question.ID] = len(q.Questions)
		q.Questions = append(q.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return Quiz{}, apierr.Internal(err)
	}

	orows, err := s.db.QueryContext(ctx,
		`SELECT o.id,o.question_id,o.text,o.is_correct
		 FROM options o JOIN questions qs ON qs.id=o.question_id
		 WHERE qs.quiz_id=$1 ORDER BY qs.ord, o.id`, id)
	if err != nil {
		return Quiz{}, apierr.Internal(err)
	}
	defer orows.Close()
	for orows.Next() {
		var opt Option
		var questionID string
		if err := orows.Scan(&opt.ID, &questionID, &opt.Text, &opt.IsCorrect); err != nil {
			return Quiz{}, apierr.Internal(err)
		}
		if i, ok := byID[questionID]; ok {
			q.Questions[i].Options = append(q.Questions[i].Options, opt)
		}
	}
	if err := orows.Err(); err != nil {
		return Quiz{}, apierr.Internal(err)
	}

	if !includeAnswers {
		return ForDelivery(q), nil
	}
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, viewerID string) ([]QuizSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT q.id, q.title, q.description,
		        (SELECT COUNT(1) FROM questions WHERE quiz_id=q.id)
		 FROM quizzes q ORDER BY q.created_at DESC, q.id`)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	defer rows.Close()

	out := []QuizSummary{}
	for rows.Next() {
		var sum QuizSummary
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Description, &sum.QuestionCount); err != nil {
			return nil, apierr.Internal(err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.Internal(err)
	}

	for i := range out {
		var score, total int
		var at int64
		err := s.db.QueryRowContext(ctx,
			`SELECT score,total,created_at FROM attempts
			 WHERE quiz_id=$1 AND user_id=$2 ORDER BY created_at DESC, id LIMIT 1`,
			out[i].ID, viewerID).Scan(&score, &total, &at)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// never attempted
		case err != nil:
			return nil, apierr.Internal(err)
		default:
			pct := Percentage(score, total)
			out[i].UserScore = &pct
			out[i].LastAttempt = &at
		}
	}
	return out, nil
}

func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	answers := a.Answers
	if answers == nil {
		answers = []GradedAnswer{}
	}
	buf, err := json.Marshal(answers)
	if err != nil {
		return Attempt{}, apierr.Internal(err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id,user_id,quiz_id,score,total,answers_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.UserID, a.QuizID, a.Score, a.Total, string(buf), a.CreatedAt); err != nil {
		return Attempt{}, apierr.Internal(err)
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	var a Attempt
	var ajson string
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,quiz_id,score,total,answers_json,created_at FROM attempts WHERE id=$1`, id)
	if err := row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.Score, &a.Total, &ajson, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, apierr.New(apierr.CodeNotFound, "Attempt not found")
		}
		return Attempt{}, apierr.Internal(err)
	}
	if err := json.Unmarshal([]byte(ajson), &a.Answers); err != nil {
		return Attempt{}, apierr.Internal(err)
	}
	return a, nil
}

func (s *SQLStore) ListAttemptsBySubject(ctx context.Context, userID string) ([]AttemptSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.quiz_id, q.title, a.score, a.total, a.created_at
		 FROM attempts a JOIN quizzes q ON q.id=a.quiz_id
		 WHERE a.user_id=$1 ORDER BY a.created_at DESC, a.id`, userID)
	if err != nil {
		return nil, apierr.Internal(err)
	}
	defer rows.Close()

	out := []AttemptSummary{}
	for rows.Next() {
		var sum AttemptSummary
		if err := rows.Scan(&sum.ID, &sum.QuizID, &sum.QuizTitle, &sum.Score, &sum.Total, &sum.CreatedAt); err != nil {
			return nil, apierr.Internal(err)
		}
		sum.Percentage = Percentage(sum.Score, sum.Total)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.Internal(err)
	}
	return out, nil
}
