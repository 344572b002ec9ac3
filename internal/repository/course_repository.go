package repository

import (
	"context"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseStudent is the roster entry for a course's student listing.
type CourseStudent struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CourseRepository handles course and enrollment data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO courses (code, name, description, teacher_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Code, c.Name, c.Description, c.TeacherID,
	).Scan(&c.ID, &c.CreatedAt)
	return translate(err)
}

// GetByID retrieves a course by id.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, description, teacher_id, created_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.TeacherID, &c.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// ListByTeacher retrieves courses owned by a teacher.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, description, teacher_id, created_at
		 FROM courses WHERE teacher_id = $1
		 ORDER BY created_at DESC`, teacherID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListByStudent retrieves the courses a student is enrolled in, with the
// teacher's name joined in.
func (r *CourseRepository) ListByStudent(ctx context.Context, studentID int64) ([]model.Course, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.code, c.name, c.description, c.teacher_id, u.name, c.created_at
		 FROM courses c
		 JOIN enrollments e ON c.id = e.course_id
		 JOIN users u ON c.teacher_id = u.id
		 WHERE e.user_id = $1
		 ORDER BY c.created_at DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Description, &c.TeacherID, &c.TeacherName, &c.CreatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Enroll adds a student to a course. Returns ErrDuplicate if the student
// is already enrolled.
func (r *CourseRepository) Enroll(ctx context.Context, courseID, studentID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO enrollments (user_id, course_id) VALUES ($1, $2)`,
		studentID, courseID)
	return translate(err)
}

// ListStudents retrieves the enrolled students for a course.
func (r *CourseRepository) ListStudents(ctx context.Context, courseID int64) ([]CourseStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email
		 FROM users u
		 JOIN enrollments e ON u.id = e.user_id
		 WHERE e.course_id = $1 AND u.role = $2
		 ORDER BY u.name ASC`, courseID, model.RoleStudent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []CourseStudent
	for rows.Next() {
		var s CourseStudent
		if err := rows.Scan(&s.ID, &s.Name, &s.Email); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	if students == nil {
		students = []CourseStudent{}
	}
	return students, rows.Err()
}
