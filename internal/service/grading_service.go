package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eduscope/eduscope-backend/internal/grader"
	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// ExamStore is the exam access the grading flow needs.
type ExamStore interface {
	GetByID(ctx context.Context, id int64) (*model.Exam, error)
	ListQuestions(ctx context.Context, examID int64) ([]model.Question, error)
}

// SubmissionStore is the submission access the grading flow needs.
type SubmissionStore interface {
	GetByExamAndUser(ctx context.Context, examID, userID int64) (*model.Submission, error)
	CreateWithAnswers(ctx context.Context, s *model.Submission, answers []model.Answer) error
	GradeAnswer(ctx context.Context, answerID int64, score float64, feedback string) (float64, error)
	ListByExam(ctx context.Context, examID int64) ([]repository.SubmissionWithAnswers, error)
}

// GradingService turns a student's raw answers into a graded submission
// and handles manual regrades.
type GradingService struct {
	exams ExamStore
	subs  SubmissionStore
}

// NewGradingService creates a new GradingService.
func NewGradingService(exams ExamStore, subs SubmissionStore) *GradingService {
	return &GradingService{exams: exams, subs: subs}
}

// Submit grades a student's answers against the exam's question set and
// stores the submission atomically. Each question gets exactly one answer
// row; questions missing from the payload are recorded as blank. A second
// submit for the same exam fails with ErrAlreadySubmitted.
func (s *GradingService) Submit(ctx context.Context, examID, studentID int64, req *model.SubmitExamRequest) (*model.Submission, []model.Answer, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("load exam: %w", err)
	}

	if _, err := s.subs.GetByExamAndUser(ctx, examID, studentID); err == nil {
		return nil, nil, ErrAlreadySubmitted
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("check existing submission: %w", err)
	}

	questions, err := s.exams.ListQuestions(ctx, examID)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}

	submitted := make(map[int64]string, len(req.Answers))
	for _, a := range req.Answers {
		submitted[a.QuestionID] = a.Content
	}

	var total float64
	answers := make([]model.Answer, len(questions))
	for i, q := range questions {
		content := submitted[q.ID]
		score := grader.Score(q, content)
		total += score
		answers[i] = model.Answer{
			QuestionID: q.ID,
			Content:    content,
			Score:      score,
		}
	}

	sub := &model.Submission{
		UserID:     studentID,
		ExamID:     examID,
		TotalScore: total,
	}
	if err := s.subs.CreateWithAnswers(ctx, sub, answers); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrAlreadySubmitted
		}
		return nil, nil, fmt.Errorf("store submission: %w", err)
	}

	log.Debug().
		Str("component", "grading").
		Int64("exam_id", examID).
		Int64("student_id", studentID).
		Float64("total", total).
		Msg("submission graded")

	return sub, answers, nil
}

// Regrade overrides one answer's score and feedback and returns the
// submission's recomputed total. The override is taken as-is; a teacher
// may award above the question's maximum.
func (s *GradingService) Regrade(ctx context.Context, answerID int64, score float64, feedback string) (float64, error) {
	total, err := s.subs.GradeAnswer(ctx, answerID, score, feedback)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("grade answer: %w", err)
	}
	return total, nil
}

// ListSubmissions returns every submission for an exam with answers joined
// to their questions, for the teacher's grading view.
func (s *GradingService) ListSubmissions(ctx context.Context, examID int64) ([]repository.SubmissionWithAnswers, error) {
	if _, err := s.exams.GetByID(ctx, examID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.subs.ListByExam(ctx, examID)
}
