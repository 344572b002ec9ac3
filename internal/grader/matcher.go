// Package grader implements the automatic answer-matching rules.
// Scoring is pure: no state, no I/O, deterministic per question type.
package grader

import (
	"strconv"
	"strings"

	"github.com/eduscope/eduscope-backend/internal/model"
)

// Score compares a submitted answer against a question's answer key and
// returns the earned score in [0, q.MaxScore].
//
// Rules per type:
//   - mcq:     trimmed, case-insensitive exact match → full score, else 0
//   - boolean: same trimmed case-insensitive match on the literal true/false
//   - number:  both sides parsed as floats, exact equality → full score;
//     an unparsable submission is a mismatch, not an error
//   - text:    always 0 — free text is graded manually, never here
//
// A blank submission scores 0 regardless of type, and a question without an
// answer key scores 0 for every submission (no key, no auto score).
func Score(q model.Question, submitted string) float64 {
	if q.CorrectAnswer == nil {
		return 0
	}

	content := strings.TrimSpace(submitted)
	if content == "" {
		return 0
	}

	switch q.Type {
	case model.QuestionTypeChoice, model.QuestionTypeBoolean:
		if strings.EqualFold(content, strings.TrimSpace(*q.CorrectAnswer)) {
			return q.MaxScore
		}
	case model.QuestionTypeNumber:
		got, err := strconv.ParseFloat(content, 64)
		if err != nil {
			return 0
		}
		want, err := strconv.ParseFloat(strings.TrimSpace(*q.CorrectAnswer), 64)
		if err != nil {
			return 0
		}
		if got == want {
			return q.MaxScore
		}
	case model.QuestionTypeText:
		// Manual grading only.
	}

	return 0
}
