package grader

import (
	"testing"

	"github.com/eduscope/eduscope-backend/internal/model"
)

func strPtr(s string) *string { return &s }

func TestScore_MultipleChoice(t *testing.T) {
	q := model.Question{Type: model.QuestionTypeChoice, CorrectAnswer: strPtr("B"), MaxScore: 2}

	tests := []struct {
		name      string
		submitted string
		want      float64
	}{
		{"exact match", "B", 2},
		{"lowercase match", "b", 2},
		{"whitespace wrapped match", "  B  ", 2},
		{"wrong option", "A", 0},
		{"blank", "", 0},
		{"whitespace only", "   ", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(q, tc.submitted); got != tc.want {
				t.Fatalf("Score(%q) = %v, want %v", tc.submitted, got, tc.want)
			}
		})
	}
}

func TestScore_Boolean(t *testing.T) {
	q := model.Question{Type: model.QuestionTypeBoolean, CorrectAnswer: strPtr("true"), MaxScore: 1}

	tests := []struct {
		name      string
		submitted string
		want      float64
	}{
		{"exact match", "true", 1},
		{"uppercase match", "TRUE", 1},
		{"trimmed match", " true ", 1},
		{"wrong value", "false", 0},
		{"not a boolean", "yes", 0},
		{"blank", "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(q, tc.submitted); got != tc.want {
				t.Fatalf("Score(%q) = %v, want %v", tc.submitted, got, tc.want)
			}
		})
	}
}

func TestScore_Number(t *testing.T) {
	q := model.Question{Type: model.QuestionTypeNumber, CorrectAnswer: strPtr("10"), MaxScore: 3}

	tests := []struct {
		name      string
		submitted string
		want      float64
	}{
		{"exact match", "10", 3},
		{"equivalent float form", "10.0", 3},
		{"trimmed match", " 10 ", 3},
		{"close but wrong", "9.9", 0},
		{"wrong", "3.01", 0},
		{"not a number", "ten", 0},
		{"blank", "", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Score(q, tc.submitted); got != tc.want {
				t.Fatalf("Score(%q) = %v, want %v", tc.submitted, got, tc.want)
			}
		})
	}

	t.Run("exact equality on decimals", func(t *testing.T) {
		dq := model.Question{Type: model.QuestionTypeNumber, CorrectAnswer: strPtr("3.0"), MaxScore: 5}
		if got := Score(dq, "3"); got != 5 {
			t.Fatalf("Score(\"3\") against key \"3.0\" = %v, want 5", got)
		}
		if got := Score(dq, "3.01"); got != 0 {
			t.Fatalf("Score(\"3.01\") against key \"3.0\" = %v, want 0", got)
		}
	})

	t.Run("unparsable answer key mismatches", func(t *testing.T) {
		bad := model.Question{Type: model.QuestionTypeNumber, CorrectAnswer: strPtr("n/a"), MaxScore: 3}
		if got := Score(bad, "10"); got != 0 {
			t.Fatalf("Score with unparsable key = %v, want 0", got)
		}
	})
}

func TestScore_FreeText(t *testing.T) {
	q := model.Question{Type: model.QuestionTypeText, CorrectAnswer: strPtr("anything"), MaxScore: 4}

	// Free text never auto-scores, even on a literal match.
	if got := Score(q, "anything"); got != 0 {
		t.Fatalf("Score(free text literal match) = %v, want 0", got)
	}
	if got := Score(q, "an essay"); got != 0 {
		t.Fatalf("Score(free text) = %v, want 0", got)
	}
}

func TestScore_NoAnswerKey(t *testing.T) {
	for _, typ := range []model.QuestionType{
		model.QuestionTypeChoice,
		model.QuestionTypeBoolean,
		model.QuestionTypeNumber,
		model.QuestionTypeText,
	} {
		q := model.Question{Type: typ, CorrectAnswer: nil, MaxScore: 2}
		if got := Score(q, "true"); got != 0 {
			t.Fatalf("Score(%s question without key) = %v, want 0", typ, got)
		}
	}
}

func TestScore_FullScoreOnCanonical(t *testing.T) {
	// For every auto-graded type, submitting the canonical answer earns the
	// question's full weight.
	questions := []model.Question{
		{Type: model.QuestionTypeChoice, CorrectAnswer: strPtr("C"), MaxScore: 2.5},
		{Type: model.QuestionTypeBoolean, CorrectAnswer: strPtr("false"), MaxScore: 1.5},
		{Type: model.QuestionTypeNumber, CorrectAnswer: strPtr("42.5"), MaxScore: 4},
	}
	for _, q := range questions {
		if got := Score(q, *q.CorrectAnswer); got != q.MaxScore {
			t.Fatalf("Score(%s, canonical) = %v, want %v", q.Type, got, q.MaxScore)
		}
	}
}
