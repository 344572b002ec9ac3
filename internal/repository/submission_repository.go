package repository

import (
	"context"
	"fmt"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GradedAnswer is an answer joined with its question for the teacher's
// grading view.
type GradedAnswer struct {
	model.Answer
	QuestionContent string             `json:"question_content"`
	QuestionType    model.QuestionType `json:"question_type"`
	MaxScore        float64            `json:"max_score"`
	Tags            string             `json:"tags"`
}

// SubmissionWithAnswers combines a submission with the student's identity
// and every answer, for the per-exam grading listing.
type SubmissionWithAnswers struct {
	model.Submission
	StudentName  string         `json:"student_name"`
	StudentEmail string         `json:"student_email"`
	Answers      []GradedAnswer `json:"answers"`
}

// SubmissionRepository handles submission and answer data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// GetByExamAndUser retrieves a student's submission for an exam.
func (r *SubmissionRepository) GetByExamAndUser(ctx context.Context, examID, userID int64) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, exam_id, submitted_at, total_score
		 FROM submissions WHERE exam_id = $1 AND user_id = $2`, examID, userID,
	).Scan(&s.ID, &s.UserID, &s.ExamID, &s.SubmittedAt, &s.TotalScore)
	if err != nil {
		return nil, translate(err)
	}
	return s, nil
}

// CreateWithAnswers inserts a submission and all of its answer rows in a
// single transaction: either everything commits or nothing does. The
// UNIQUE(user_id, exam_id) constraint turns a concurrent double-submit
// into ErrDuplicate here rather than a partial write.
func (r *SubmissionRepository) CreateWithAnswers(ctx context.Context, s *model.Submission, answers []model.Answer) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO submissions (user_id, exam_id, total_score)
		 VALUES ($1, $2, $3)
		 RETURNING id, submitted_at`,
		s.UserID, s.ExamID, s.TotalScore,
	).Scan(&s.ID, &s.SubmittedAt)
	if err != nil {
		return translate(err)
	}

	for i := range answers {
		a := &answers[i]
		a.SubmissionID = s.ID

		err = tx.QueryRow(ctx,
			`INSERT INTO answers (submission_id, question_id, content, score)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			a.SubmissionID, a.QuestionID, a.Content, a.Score,
		).Scan(&a.ID)
		if err != nil {
			return translate(err)
		}
	}

	return tx.Commit(ctx)
}

// GradeAnswer updates one answer's score and feedback and recomputes the
// owning submission's total from scratch, in one transaction. Returns the
// new total. The full recompute keeps repeated regrades idempotent.
func (r *SubmissionRepository) GradeAnswer(ctx context.Context, answerID int64, score float64, feedback string) (float64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var submissionID int64
	err = tx.QueryRow(ctx,
		`UPDATE answers SET score = $1, feedback = $2
		 WHERE id = $3
		 RETURNING submission_id`,
		score, feedback, answerID,
	).Scan(&submissionID)
	if err != nil {
		return 0, translate(err)
	}

	var total float64
	err = tx.QueryRow(ctx,
		`UPDATE submissions
		 SET total_score = (SELECT COALESCE(SUM(score), 0) FROM answers WHERE submission_id = $1)
		 WHERE id = $1
		 RETURNING total_score`,
		submissionID,
	).Scan(&total)
	if err != nil {
		return 0, translate(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return total, nil
}

// ListByExam retrieves every submission for an exam, newest first, with the
// student's identity and all answers joined to their questions.
func (r *SubmissionRepository) ListByExam(ctx context.Context, examID int64) ([]SubmissionWithAnswers, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.user_id, s.exam_id, s.submitted_at, s.total_score, u.name, u.email
		 FROM submissions s
		 JOIN users u ON s.user_id = u.id
		 WHERE s.exam_id = $1
		 ORDER BY s.submitted_at DESC`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []SubmissionWithAnswers
	index := make(map[int64]int)
	for rows.Next() {
		var s SubmissionWithAnswers
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExamID, &s.SubmittedAt, &s.TotalScore, &s.StudentName, &s.StudentEmail); err != nil {
			return nil, err
		}
		s.Answers = []GradedAnswer{}
		index[s.ID] = len(subs)
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return []SubmissionWithAnswers{}, nil
	}

	// One pass over all answers for the exam, grouped back onto their
	// submissions in memory.
	answerRows, err := r.pool.Query(ctx,
		`SELECT a.id, a.submission_id, a.question_id, a.content, a.score, COALESCE(a.feedback, ''),
		        q.content, q.type, q.max_score, q.tags
		 FROM answers a
		 JOIN questions q ON a.question_id = q.id
		 JOIN submissions s ON a.submission_id = s.id
		 WHERE s.exam_id = $1
		 ORDER BY a.id`, examID,
	)
	if err != nil {
		return nil, err
	}
	defer answerRows.Close()

	for answerRows.Next() {
		var a GradedAnswer
		if err := answerRows.Scan(&a.ID, &a.SubmissionID, &a.QuestionID, &a.Content, &a.Score, &a.Feedback,
			&a.QuestionContent, &a.QuestionType, &a.MaxScore, &a.Tags); err != nil {
			return nil, err
		}
		if i, ok := index[a.SubmissionID]; ok {
			subs[i].Answers = append(subs[i].Answers, a)
		}
	}
	return subs, answerRows.Err()
}
