package model

import "time"

// Exam represents a timed collection of questions within a course.
type Exam struct {
	ID              int64     `json:"id"`
	CourseID        int64     `json:"course_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateExamRequest is the payload for creating an exam with its questions.
// An exam cannot exist without at least one question.
type CreateExamRequest struct {
	CourseID        int64         `json:"course_id" binding:"required,gt=0"`
	Title           string        `json:"title" binding:"required,min=1,max=255"`
	Description     string        `json:"description" binding:"omitempty,max=2000"`
	StartTime       *time.Time    `json:"start_time" binding:"omitempty"`
	DurationMinutes int           `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	Questions       []NewQuestion `json:"questions" binding:"required,min=1,dive"`
}
