package service

import (
	"context"
	"errors"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
)

// CourseService handles course and enrollment business logic.
type CourseService struct {
	courseRepo *repository.CourseRepository
	userRepo   *repository.UserRepository
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, userRepo *repository.UserRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo, userRepo: userRepo}
}

// Create creates a course owned by the given teacher.
func (s *CourseService) Create(ctx context.Context, teacherID int64, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacherID,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// GetOwned retrieves a course and verifies the teacher owns it.
func (s *CourseService) GetOwned(ctx context.Context, courseID, teacherID int64) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, ErrForbidden
	}
	return course, nil
}

// ListForUser lists courses for either role: owned courses for a teacher,
// enrolled courses for a student.
func (s *CourseService) ListForUser(ctx context.Context, userID int64, role model.Role) ([]model.Course, error) {
	if role == model.RoleTeacher {
		return s.courseRepo.ListByTeacher(ctx, userID)
	}
	return s.courseRepo.ListByStudent(ctx, userID)
}

// Enroll adds a student, looked up by email, to a teacher's course.
// Returns ErrNotFound for an unknown student email, ErrAlreadyEnrolled on
// a repeat enrollment.
func (s *CourseService) Enroll(ctx context.Context, courseID, teacherID int64, studentEmail string) (*repository.CourseStudent, error) {
	if _, err := s.GetOwned(ctx, courseID, teacherID); err != nil {
		return nil, err
	}

	student, err := s.userRepo.GetStudentByEmail(ctx, studentEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.courseRepo.Enroll(ctx, courseID, student.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	return &repository.CourseStudent{ID: student.ID, Name: student.Name, Email: student.Email}, nil
}

// ListStudents lists the roster of a teacher's course.
func (s *CourseService) ListStudents(ctx context.Context, courseID, teacherID int64) ([]repository.CourseStudent, error) {
	if _, err := s.GetOwned(ctx, courseID, teacherID); err != nil {
		return nil, err
	}
	return s.courseRepo.ListStudents(ctx, courseID)
}
