package quiz

import (
	"strings"

	"github.com/quizdeck/quizdeck/internal/apierr"
)

const optionsPerQuestion = 4

// ValidateDraft enforces the structural invariants on authoring input.
// Rules run in order and the first failure wins; question positions in
// messages are 1-based.
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return apierr.New(apierr.CodeValidation, "Title, description, and questions are required")
	}
	if len(d.Questions) == 0 {
		return apierr.New(apierr.CodeValidation, "At least one question is required")
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" || len(q.Options) != optionsPerQuestion {
			return apierr.Newf(apierr.CodeValidation,
				"Question %d must have text and exactly %d options", i+1, optionsPerQuestion)
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return apierr.Newf(apierr.CodeValidation,
				"Question %d must have exactly one correct answer", i+1)
		}
	}
	return nil
}
