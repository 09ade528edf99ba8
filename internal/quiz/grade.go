package quiz

import "math"

// GradeResult is the outcome of matching one submission against a quiz.
type GradeResult struct {
	Score   int
	Total   int
	Answers []GradedAnswer
}

// Grade matches submitted answers against the quiz's authoritative option
// set. Pure function: no I/O, no mutation of q.
//
// Entries whose questionId is not in the quiz are silently discarded.
// Duplicate entries for one question resolve last-write-wins: the submission
// is folded into a map keyed by question id before any lookup, so the final
// entry is the one graded. Unanswered questions contribute nothing to Score
// and do not appear in Answers.
func Grade(q Quiz, submitted []SubmittedAnswer) GradeResult {
	byQuestion := make(map[string]string, len(submitted))
	for _, sa := range submitted {
		byQuestion[sa.QuestionID] = sa.OptionID
	}

	res := GradeResult{Total: len(q.Questions)}
	for _, question := range q.Questions {
		optionID, answered := byQuestion[question.ID]
		if !answered {
			continue
		}
		correct := correctOptionID(question) == optionID
		if correct {
			res.Score++
		}
		res.Answers = append(res.Answers, GradedAnswer{
			QuestionID: question.ID,
			OptionID:   optionID,
			IsCorrect:  correct,
		})
	}
	return res
}

// correctOptionID returns the id of the option flagged correct. Authoring
// validation guarantees exactly one exists.
func correctOptionID(q Question) string {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID
		}
	}
	return ""
}

// Percentage recomputes the 0-100 grade from score and total with half-up
// rounding. Never persisted; derived on every read.
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
