package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StudentExamRow is an exam listing entry for a student, carrying their
// own submission state when one exists.
type StudentExamRow struct {
	model.Exam
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Score       *float64   `json:"score,omitempty"`
}

// ExamRepository handles exam and question data access.
type ExamRepository struct {
	pool *pgxpool.Pool
}

// NewExamRepository creates a new ExamRepository.
func NewExamRepository(pool *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{pool: pool}
}

// CreateWithQuestions inserts an exam and all of its questions in a single
// transaction. Questions are immutable after this point.
func (r *ExamRepository) CreateWithQuestions(ctx context.Context, e *model.Exam, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO exams (course_id, title, description, start_time, duration_minutes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		e.CourseID, e.Title, e.Description, e.StartTime, e.DurationMinutes,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return translate(err)
	}

	for i := range questions {
		q := &questions[i]
		q.ExamID = e.ID

		options, err := encodeOptions(q.Options)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO questions (exam_id, type, content, options, correct_answer, max_score, tags)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id`,
			q.ExamID, q.Type, q.Content, options, q.CorrectAnswer, q.MaxScore, q.Tags,
		).Scan(&q.ID)
		if err != nil {
			return translate(err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves an exam by id.
func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	e := &model.Exam{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, course_id, title, description, start_time, duration_minutes, created_at
		 FROM exams WHERE id = $1`, id,
	).Scan(&e.ID, &e.CourseID, &e.Title, &e.Description, &e.StartTime, &e.DurationMinutes, &e.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return e, nil
}

// ListByCourse retrieves all exams in a course, newest first.
func (r *ExamRepository) ListByCourse(ctx context.Context, courseID int64) ([]model.Exam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, course_id, title, description, start_time, duration_minutes, created_at
		 FROM exams WHERE course_id = $1
		 ORDER BY created_at DESC`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		var e model.Exam
		if err := rows.Scan(&e.ID, &e.CourseID, &e.Title, &e.Description, &e.StartTime, &e.DurationMinutes, &e.CreatedAt); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListByCourseForStudent retrieves a course's exams with the student's own
// submission timestamp and score left-joined in.
func (r *ExamRepository) ListByCourseForStudent(ctx context.Context, courseID, studentID int64) ([]StudentExamRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT e.id, e.course_id, e.title, e.description, e.start_time, e.duration_minutes, e.created_at,
		        s.submitted_at, s.total_score
		 FROM exams e
		 LEFT JOIN submissions s ON e.id = s.exam_id AND s.user_id = $1
		 WHERE e.course_id = $2
		 ORDER BY e.created_at DESC`, studentID, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exams []StudentExamRow
	for rows.Next() {
		var e StudentExamRow
		if err := rows.Scan(&e.ID, &e.CourseID, &e.Title, &e.Description, &e.StartTime, &e.DurationMinutes, &e.CreatedAt,
			&e.SubmittedAt, &e.Score); err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// ListQuestions retrieves all questions for an exam in authoring order.
// Multiple-choice options are decoded from their stored JSON here, once,
// at the storage boundary.
func (r *ExamRepository) ListQuestions(ctx context.Context, examID int64) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, exam_id, type, content, options, correct_answer, max_score, tags
		 FROM questions WHERE exam_id = $1
		 ORDER BY id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.ExamID, &q.Type, &q.Content, &options, &q.CorrectAnswer, &q.MaxScore, &q.Tags); err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("decode options for question %d: %w", q.ID, err)
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// encodeOptions serializes a choice list as JSON, or NULL when absent.
func encodeOptions(options []string) ([]byte, error) {
	if len(options) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return raw, nil
}
