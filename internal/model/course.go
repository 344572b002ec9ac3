package model

import "time"

// Course represents a course taught by one teacher.
type Course struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TeacherID   int64  `json:"teacher_id"`
	// TeacherName is joined in for student-facing listings only.
	TeacherName string    `json:"teacher_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// EnrollRequest is the payload for enrolling a student into a course.
type EnrollRequest struct {
	StudentEmail string `json:"student_email" binding:"required,email"`
}
