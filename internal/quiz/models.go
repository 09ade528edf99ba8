package quiz

type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect,omitempty"`
}

type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Order   int      `json:"order"` // 1-based, unique within a quiz
	Options []Option `json:"options"`
}

// Quiz is immutable after creation: no update or delete path exists.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatedAt   int64      `json:"created_at,omitempty"`
}

// Draft is untrusted authoring input, validated before persistence.
type Draft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionDraft `json:"questions"`
}

type QuestionDraft struct {
	Text    string        `json:"text"`
	Options []OptionDraft `json:"options"`
}

type OptionDraft struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// SubmittedAnswer is client-supplied and untrusted; correctness is never
// taken from it.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
}

// GradedAnswer is derived by the scoring engine from the authoritative
// option set.
type GradedAnswer struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"optionId"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Attempt is one graded submission. Append-only: created exactly once and
// never re-graded, even if the quiz were to change afterwards.
type Attempt struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	QuizID    string         `json:"quiz_id"`
	Score     int            `json:"score"`
	Total     int            `json:"total"`
	Answers   []GradedAnswer `json:"answers"`
	CreatedAt int64          `json:"created_at"`
}

// QuizSummary is a list-view row: quiz metadata decorated with the viewer's
// latest result.
type QuizSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"questionCount"`
	UserScore     *int   `json:"userScore"`   // viewer's latest attempt percentage, nil if never attempted
	LastAttempt   *int64 `json:"lastAttempt"` // unix seconds
}

// AttemptSummary is a history row for the owner's attempt list.
type AttemptSummary struct {
	ID         string `json:"id"`
	QuizID     string `json:"quizId"`
	QuizTitle  string `json:"quizTitle"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	CreatedAt  int64  `json:"createdAt"`
}
