package service

import (
	"context"
	"errors"
	"time"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
)

// ExamService handles exam authoring and retrieval.
type ExamService struct {
	examRepo   *repository.ExamRepository
	courseRepo *repository.CourseRepository
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, courseRepo *repository.CourseRepository) *ExamService {
	return &ExamService{examRepo: examRepo, courseRepo: courseRepo}
}

// Create authors an exam with its full question set in one shot. The
// question list is fixed at creation; a question without an explicit
// maximum is worth one point.
func (s *ExamService) Create(ctx context.Context, teacherID int64, req *model.CreateExamRequest) (*model.Exam, []model.Question, error) {
	course, err := s.courseRepo.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if course.TeacherID != teacherID {
		return nil, nil, ErrForbidden
	}
	if len(req.Questions) == 0 {
		return nil, nil, ErrNoQuestions
	}

	exam := &model.Exam{
		CourseID:        req.CourseID,
		Title:           req.Title,
		Description:     req.Description,
		StartTime:       time.Now(),
		DurationMinutes: req.DurationMinutes,
	}
	if req.StartTime != nil {
		exam.StartTime = *req.StartTime
	}
	if exam.DurationMinutes == 0 {
		exam.DurationMinutes = 60
	}

	questions := make([]model.Question, len(req.Questions))
	for i, nq := range req.Questions {
		maxScore := nq.MaxScore
		if maxScore == 0 {
			maxScore = 1
		}
		questions[i] = model.Question{
			Type:          model.QuestionType(nq.Type),
			Content:       nq.Content,
			Options:       nq.Options,
			CorrectAnswer: nq.CorrectAnswer,
			MaxScore:      maxScore,
			Tags:          nq.Tags,
		}
	}

	if err := s.examRepo.CreateWithQuestions(ctx, exam, questions); err != nil {
		return nil, nil, err
	}
	return exam, questions, nil
}

// Get retrieves an exam with its questions, enforcing course access:
// teachers must own the course, students must be enrolled.
func (s *ExamService) Get(ctx context.Context, examID int64, caller Caller) (*model.Exam, []model.Question, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if err := s.authorizeCourse(ctx, exam.CourseID, caller); err != nil {
		return nil, nil, err
	}

	questions, err := s.examRepo.ListQuestions(ctx, examID)
	if err != nil {
		return nil, nil, err
	}
	return exam, questions, nil
}

// ListByCourse lists a course's exams. Students additionally get their
// own submission state per exam.
func (s *ExamService) ListByCourse(ctx context.Context, courseID int64, caller Caller) ([]repository.StudentExamRow, error) {
	if err := s.authorizeCourse(ctx, courseID, caller); err != nil {
		return nil, err
	}

	if caller.Role == model.RoleStudent {
		return s.examRepo.ListByCourseForStudent(ctx, courseID, caller.UserID)
	}

	exams, err := s.examRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rows := make([]repository.StudentExamRow, len(exams))
	for i, e := range exams {
		rows[i] = repository.StudentExamRow{Exam: e}
	}
	return rows, nil
}

func (s *ExamService) authorizeCourse(ctx context.Context, courseID int64, caller Caller) error {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if caller.Role == model.RoleTeacher {
		if course.TeacherID != caller.UserID {
			return ErrForbidden
		}
		return nil
	}

	enrolled, err := s.isEnrolled(ctx, courseID, caller.UserID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrForbidden
	}
	return nil
}

func (s *ExamService) isEnrolled(ctx context.Context, courseID, studentID int64) (bool, error) {
	courses, err := s.courseRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return false, err
	}
	for _, c := range courses {
		if c.ID == courseID {
			return true, nil
		}
	}
	return false, nil
}
