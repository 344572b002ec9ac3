package model

// QuestionType enumerates the gradable question kinds.
type QuestionType string

const (
	QuestionTypeChoice  QuestionType = "mcq"
	QuestionTypeText    QuestionType = "text"
	QuestionTypeBoolean QuestionType = "boolean"
	QuestionTypeNumber  QuestionType = "number"
)

// Question represents a single gradable exam item. Options is only set for
// multiple-choice questions; CorrectAnswer is nil for manually graded
// free-text questions (and any question authored without an answer key).
type Question struct {
	ID            int64        `json:"id"`
	ExamID        int64        `json:"exam_id"`
	Type          QuestionType `json:"type"`
	Content       string       `json:"content"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer *string      `json:"correct_answer,omitempty"`
	MaxScore      float64      `json:"max_score"`
	Tags          string       `json:"tags"`
}

// QuestionForStudent is a question without the answer key, sent to students.
type QuestionForStudent struct {
	ID       int64        `json:"id"`
	Type     QuestionType `json:"type"`
	Content  string       `json:"content"`
	Options  []string     `json:"options,omitempty"`
	MaxScore float64      `json:"max_score"`
	Tags     string       `json:"tags"`
}

// ForStudent strips the answer key from a question.
func (q Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:       q.ID,
		Type:     q.Type,
		Content:  q.Content,
		Options:  q.Options,
		MaxScore: q.MaxScore,
		Tags:     q.Tags,
	}
}

// NewQuestion is the authoring payload for a single question.
type NewQuestion struct {
	Type          string   `json:"type" binding:"required,oneof=mcq text boolean number"`
	Content       string   `json:"content" binding:"required,min=1,max=2000"`
	Options       []string `json:"options" binding:"omitempty,max=10"`
	CorrectAnswer *string  `json:"correct_answer" binding:"omitempty"`
	MaxScore      float64  `json:"max_score" binding:"omitempty,gt=0"`
	Tags          string   `json:"tags" binding:"omitempty,max=255"`
}
