package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionScore is one submission's total together with the exam's
// maximum achievable score at read time. Aggregation happens in the
// service layer, on top of these rows.
type SubmissionScore struct {
	SubmissionID int64
	ExamID       int64
	SubmittedAt  time.Time
	Total        float64
	MaxSum       float64
}

// TopicAnswer is one answer's score and ceiling under a topic tag.
type TopicAnswer struct {
	Topic    string
	Score    float64
	MaxScore float64
}

// ExamRef identifies an exam inside a statistics report.
type ExamRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// CourseRef identifies a course inside a statistics report.
type CourseRef struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// StudentSubmission is a student's submission with the exam and course it
// belongs to, for per-student reports spanning courses.
type StudentSubmission struct {
	SubmissionScore
	ExamTitle  string
	CourseID   int64
	CourseName string
}

// StatsRepository reads the raw rows that statistics reports are built
// from. It never aggregates beyond per-row sums.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// CountEnrollments returns the number of students enrolled in a course.
func (r *StatsRepository) CountEnrollments(ctx context.Context, courseID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE course_id = $1`, courseID,
	).Scan(&n)
	return n, err
}

// CountExams returns the number of exams in a course.
func (r *StatsRepository) CountExams(ctx context.Context, courseID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exams WHERE course_id = $1`, courseID,
	).Scan(&n)
	return n, err
}

// ListExamRefs returns the id and title of every exam in a course.
func (r *StatsRepository) ListExamRefs(ctx context.Context, courseID int64) ([]ExamRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title FROM exams WHERE course_id = $1 ORDER BY created_at ASC`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []ExamRef
	for rows.Next() {
		var ref ExamRef
		if err := rows.Scan(&ref.ID, &ref.Title); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ListCourseSubmissionScores returns every submission in a course with the
// exam's question-score sum computed at read time. A later regrade or a
// changed maximum is reflected on the next read.
func (r *StatsRepository) ListCourseSubmissionScores(ctx context.Context, courseID int64) ([]SubmissionScore, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.exam_id, s.submitted_at, s.total_score,
		        (SELECT COALESCE(SUM(q.max_score), 0) FROM questions q WHERE q.exam_id = e.id)
		 FROM submissions s
		 JOIN exams e ON s.exam_id = e.id
		 WHERE e.course_id = $1
		 ORDER BY s.submitted_at ASC`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubmissionScores(rows)
}

// ListCourseTopicAnswers returns every tagged answer in a course.
// Untagged questions are excluded at the source.
func (r *StatsRepository) ListCourseTopicAnswers(ctx context.Context, courseID int64) ([]TopicAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.tags, a.score, q.max_score
		 FROM answers a
		 JOIN questions q ON a.question_id = q.id
		 JOIN exams e ON q.exam_id = e.id
		 WHERE e.course_id = $1 AND q.tags <> ''`, courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTopicAnswers(rows)
}

// CountEnrolledExams returns how many exams exist across all courses a
// student is enrolled in.
func (r *StatsRepository) CountEnrolledExams(ctx context.Context, studentID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM exams e
		 JOIN enrollments en ON e.course_id = en.course_id
		 WHERE en.user_id = $1`, studentID,
	).Scan(&n)
	return n, err
}

// ListStudentCourses returns the courses a student is enrolled in.
func (r *StatsRepository) ListStudentCourses(ctx context.Context, studentID int64) ([]CourseRef, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.code, c.name
		 FROM courses c
		 JOIN enrollments e ON c.id = e.course_id
		 WHERE e.user_id = $1
		 ORDER BY c.created_at ASC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []CourseRef
	for rows.Next() {
		var c CourseRef
		if err := rows.Scan(&c.ID, &c.Code, &c.Name); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// ListStudentSubmissions returns every submission a student has made, with
// exam and course context, oldest first.
func (r *StatsRepository) ListStudentSubmissions(ctx context.Context, studentID int64) ([]StudentSubmission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.exam_id, s.submitted_at, s.total_score,
		        (SELECT COALESCE(SUM(q.max_score), 0) FROM questions q WHERE q.exam_id = e.id),
		        e.title, c.id, c.name
		 FROM submissions s
		 JOIN exams e ON s.exam_id = e.id
		 JOIN courses c ON e.course_id = c.id
		 WHERE s.user_id = $1
		 ORDER BY s.submitted_at ASC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []StudentSubmission
	for rows.Next() {
		var s StudentSubmission
		if err := rows.Scan(&s.SubmissionID, &s.ExamID, &s.SubmittedAt, &s.Total, &s.MaxSum,
			&s.ExamTitle, &s.CourseID, &s.CourseName); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// ListStudentTopicAnswers returns every tagged answer a student has given.
func (r *StatsRepository) ListStudentTopicAnswers(ctx context.Context, studentID int64) ([]TopicAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.tags, a.score, q.max_score
		 FROM answers a
		 JOIN questions q ON a.question_id = q.id
		 JOIN submissions s ON a.submission_id = s.id
		 WHERE s.user_id = $1 AND q.tags <> ''`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTopicAnswers(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSubmissionScores(rows rowScanner) ([]SubmissionScore, error) {
	var scores []SubmissionScore
	for rows.Next() {
		var s SubmissionScore
		if err := rows.Scan(&s.SubmissionID, &s.ExamID, &s.SubmittedAt, &s.Total, &s.MaxSum); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func scanTopicAnswers(rows rowScanner) ([]TopicAnswer, error) {
	var answers []TopicAnswer
	for rows.Next() {
		var a TopicAnswer
		if err := rows.Scan(&a.Topic, &a.Score, &a.MaxScore); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
