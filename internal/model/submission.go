package model

import "time"

// Submission is one student's single attempt record for one exam.
// At most one submission exists per (user, exam) pair.
type Submission struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ExamID      int64     `json:"exam_id"`
	SubmittedAt time.Time `json:"submitted_at"`
	TotalScore  float64   `json:"total_score"`
}

// Answer is one student's response to one question within a submission.
// Content is the empty string when the question was left blank.
type Answer struct {
	ID           int64   `json:"id"`
	SubmissionID int64   `json:"submission_id"`
	QuestionID   int64   `json:"question_id"`
	Content      string  `json:"content"`
	Score        float64 `json:"score"`
	Feedback     string  `json:"feedback"`
}

// SubmittedAnswer is one (question, content) pair in a submit payload.
type SubmittedAnswer struct {
	QuestionID int64  `json:"question_id" binding:"required"`
	Content    string `json:"content"`
}

// SubmitExamRequest is the payload for submitting an exam.
// Omitted questions are treated as blank answers.
type SubmitExamRequest struct {
	Answers []SubmittedAnswer `json:"answers" binding:"dive"`
}

// GradeAnswerRequest is the payload for manually grading one answer.
type GradeAnswerRequest struct {
	Score    *float64 `json:"score" binding:"required"`
	Feedback string   `json:"feedback" binding:"omitempty,max=2000"`
}
