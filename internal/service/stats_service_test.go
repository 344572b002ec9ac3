package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
)

type fakeCourseStore struct {
	courses map[int64]*model.Course
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type fakeStatsStore struct {
	enrollments        int
	examCount          int
	examRefs           []repository.ExamRef
	courseScores       []repository.SubmissionScore
	courseTopics       []repository.TopicAnswer
	enrolledExams      int
	studentCourses     []repository.CourseRef
	studentSubmissions []repository.StudentSubmission
	studentTopics      []repository.TopicAnswer
}

func (f *fakeStatsStore) CountEnrollments(context.Context, int64) (int, error) {
	return f.enrollments, nil
}
func (f *fakeStatsStore) CountExams(context.Context, int64) (int, error) { return f.examCount, nil }
func (f *fakeStatsStore) ListExamRefs(context.Context, int64) ([]repository.ExamRef, error) {
	return f.examRefs, nil
}
func (f *fakeStatsStore) ListCourseSubmissionScores(context.Context, int64) ([]repository.SubmissionScore, error) {
	return f.courseScores, nil
}
func (f *fakeStatsStore) ListCourseTopicAnswers(context.Context, int64) ([]repository.TopicAnswer, error) {
	return f.courseTopics, nil
}
func (f *fakeStatsStore) CountEnrolledExams(context.Context, int64) (int, error) {
	return f.enrolledExams, nil
}
func (f *fakeStatsStore) ListStudentCourses(context.Context, int64) ([]repository.CourseRef, error) {
	return f.studentCourses, nil
}
func (f *fakeStatsStore) ListStudentSubmissions(context.Context, int64) ([]repository.StudentSubmission, error) {
	return f.studentSubmissions, nil
}
func (f *fakeStatsStore) ListStudentTopicAnswers(context.Context, int64) ([]repository.TopicAnswer, error) {
	return f.studentTopics, nil
}

func at(day int) time.Time {
	return time.Date(2026, time.March, day, 10, 0, 0, 0, time.UTC)
}

func sc(id, examID int64, day int, total, maxSum float64) repository.SubmissionScore {
	return repository.SubmissionScore{
		SubmissionID: id, ExamID: examID, SubmittedAt: at(day), Total: total, MaxSum: maxSum,
	}
}

func TestCourseReportAverages(t *testing.T) {
	courses := &fakeCourseStore{courses: map[int64]*model.Course{
		1: {ID: 1, TeacherID: 7},
	}}
	store := &fakeStatsStore{
		enrollments: 3,
		examCount:   2,
		examRefs: []repository.ExamRef{
			{ID: 1, Title: "Midterm"},
			{ID: 2, Title: "Final"},
		},
		courseScores: []repository.SubmissionScore{
			sc(1, 1, 1, 5, 5),  // 100%
			sc(2, 1, 2, 2, 5),  // 40%
			sc(3, 2, 3, 9, 10), // 90%
			sc(4, 2, 4, 0, 0),  // no scoreable questions, excluded
		},
		courseTopics: []repository.TopicAnswer{
			{Topic: "algebra", Score: 2, MaxScore: 2},
			{Topic: "algebra", Score: 0, MaxScore: 2},
			{Topic: "geometry", Score: 3, MaxScore: 3},
		},
	}
	svc := NewStatsService(store, courses)

	report, err := svc.CourseReport(context.Background(), 1, Caller{UserID: 7, Role: model.RoleTeacher})
	if err != nil {
		t.Fatalf("CourseReport: %v", err)
	}

	if report.StudentCount != 3 || report.ExamCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", report.StudentCount, report.ExamCount)
	}
	if report.SubmissionCount != 4 {
		t.Errorf("submission count = %d, want 4", report.SubmissionCount)
	}
	// (100 + 40 + 90) / 3; the zero-denominator submission does not count.
	if want := 230.0 / 3; !closeTo(report.AveragePercentage, want) {
		t.Errorf("average = %v, want %v", report.AveragePercentage, want)
	}

	if len(report.Exams) != 2 {
		t.Fatalf("exam stats = %d, want 2", len(report.Exams))
	}
	if report.Exams[0].SubmissionCount != 2 || !closeTo(report.Exams[0].AveragePercentage, 70) {
		t.Errorf("midterm = %d @ %v, want 2 @ 70", report.Exams[0].SubmissionCount, report.Exams[0].AveragePercentage)
	}
	if report.Exams[1].SubmissionCount != 2 || !closeTo(report.Exams[1].AveragePercentage, 90) {
		t.Errorf("final = %d @ %v, want 2 @ 90", report.Exams[1].SubmissionCount, report.Exams[1].AveragePercentage)
	}

	// Hardest topic first.
	if len(report.Topics) != 2 || report.Topics[0].Topic != "algebra" || report.Topics[1].Topic != "geometry" {
		t.Fatalf("topics = %+v, want algebra then geometry", report.Topics)
	}
	if !closeTo(report.Topics[0].AveragePercentage, 50) || report.Topics[0].Attempts != 2 {
		t.Errorf("algebra = %v @ %d attempts, want 50 @ 2", report.Topics[0].AveragePercentage, report.Topics[0].Attempts)
	}
}

func TestCourseReportBucketsPartition(t *testing.T) {
	courses := &fakeCourseStore{courses: map[int64]*model.Course{
		1: {ID: 1, TeacherID: 7},
	}}
	store := &fakeStatsStore{
		courseScores: []repository.SubmissionScore{
			sc(1, 1, 1, 95, 100), // A
			sc(2, 1, 2, 90, 100), // A, boundary
			sc(3, 1, 3, 85, 100), // B
			sc(4, 1, 4, 70, 100), // C, boundary
			sc(5, 1, 5, 60, 100), // D, boundary
			sc(6, 1, 6, 59, 100), // F
			sc(7, 1, 7, 0, 100),  // F
			sc(8, 1, 8, 5, 0),    // excluded
		},
	}
	svc := NewStatsService(store, courses)

	report, err := svc.CourseReport(context.Background(), 1, Caller{UserID: 7, Role: model.RoleTeacher})
	if err != nil {
		t.Fatalf("CourseReport: %v", err)
	}

	want := map[string]int{
		"A (90-100)": 2,
		"B (80-89)":  1,
		"C (70-79)":  1,
		"D (60-69)":  1,
		"F (0-59)":   2,
	}
	var sum int
	for _, b := range report.Distribution {
		if b.Count != want[b.Label] {
			t.Errorf("bucket %s = %d, want %d", b.Label, b.Count, want[b.Label])
		}
		sum += b.Count
	}
	// Every gradable submission lands in exactly one bucket.
	if sum != 7 {
		t.Errorf("bucket sum = %d, want 7", sum)
	}
}

func TestCourseReportAccess(t *testing.T) {
	courses := &fakeCourseStore{courses: map[int64]*model.Course{
		1: {ID: 1, TeacherID: 7},
	}}
	svc := NewStatsService(&fakeStatsStore{}, courses)

	if _, err := svc.CourseReport(context.Background(), 1, Caller{UserID: 8, Role: model.RoleTeacher}); !errors.Is(err, ErrForbidden) {
		t.Errorf("other teacher err = %v, want ErrForbidden", err)
	}
	if _, err := svc.CourseReport(context.Background(), 1, Caller{UserID: 7, Role: model.RoleStudent}); !errors.Is(err, ErrForbidden) {
		t.Errorf("student err = %v, want ErrForbidden", err)
	}
	if _, err := svc.CourseReport(context.Background(), 404, Caller{UserID: 7, Role: model.RoleTeacher}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing course err = %v, want ErrNotFound", err)
	}
}

func studentSub(id, examID int64, day int, total, maxSum float64, title string, courseID int64, courseName string) repository.StudentSubmission {
	return repository.StudentSubmission{
		SubmissionScore: sc(id, examID, day, total, maxSum),
		ExamTitle:       title,
		CourseID:        courseID,
		CourseName:      courseName,
	}
}

func TestStudentReport(t *testing.T) {
	store := &fakeStatsStore{
		enrolledExams: 5,
		studentCourses: []repository.CourseRef{
			{ID: 1, Code: "MATH", Name: "Mathematics"},
			{ID: 2, Code: "PHYS", Name: "Physics"},
		},
		studentSubmissions: []repository.StudentSubmission{
			studentSub(1, 1, 1, 8, 10, "Algebra quiz", 1, "Mathematics"),
			studentSub(2, 2, 2, 5, 10, "Geometry quiz", 1, "Mathematics"),
			studentSub(3, 3, 3, 10, 10, "Mechanics quiz", 2, "Physics"),
		},
		studentTopics: []repository.TopicAnswer{
			{Topic: "algebra", Score: 4, MaxScore: 4},
			{Topic: "geometry", Score: 1, MaxScore: 4},
		},
	}
	svc := NewStatsService(store, &fakeCourseStore{})

	report, err := svc.StudentReport(context.Background(), 100, Caller{UserID: 100, Role: model.RoleStudent})
	if err != nil {
		t.Fatalf("StudentReport: %v", err)
	}

	if report.EnrolledExamCount != 5 || report.CompletedCount != 3 {
		t.Errorf("counts = %d/%d, want 5/3", report.EnrolledExamCount, report.CompletedCount)
	}
	if want := (80.0 + 50 + 100) / 3; !closeTo(report.AveragePercentage, want) {
		t.Errorf("average = %v, want %v", report.AveragePercentage, want)
	}

	if len(report.Courses) != 2 {
		t.Fatalf("courses = %d, want 2", len(report.Courses))
	}
	if report.Courses[0].CompletedCount != 2 || !closeTo(report.Courses[0].AveragePercentage, 65) {
		t.Errorf("math = %d @ %v, want 2 @ 65", report.Courses[0].CompletedCount, report.Courses[0].AveragePercentage)
	}

	// Trend is chronological, oldest first.
	if len(report.Trend) != 3 {
		t.Fatalf("trend = %d points, want 3", len(report.Trend))
	}
	if !closeTo(report.Trend[0].Percentage, 80) || !closeTo(report.Trend[2].Percentage, 100) {
		t.Errorf("trend = %v .. %v, want 80 .. 100", report.Trend[0].Percentage, report.Trend[2].Percentage)
	}

	// Strongest topic first, inverse of the course view.
	if report.Topics[0].Topic != "algebra" || report.Topics[1].Topic != "geometry" {
		t.Errorf("topics = %+v, want algebra then geometry", report.Topics)
	}

	// History is newest first.
	if report.History[0].ExamTitle != "Mechanics quiz" || report.History[2].ExamTitle != "Algebra quiz" {
		t.Errorf("history = %+v, want newest first", report.History)
	}
}

func TestStudentReportTrendWindow(t *testing.T) {
	store := &fakeStatsStore{}
	for i := 1; i <= 14; i++ {
		store.studentSubmissions = append(store.studentSubmissions,
			studentSub(int64(i), int64(i), i, float64(i), 20, "Quiz", 1, "Mathematics"))
	}
	svc := NewStatsService(store, &fakeCourseStore{})

	report, err := svc.StudentReport(context.Background(), 100, Caller{UserID: 1, Role: model.RoleTeacher})
	if err != nil {
		t.Fatalf("StudentReport: %v", err)
	}

	if len(report.Trend) != 10 {
		t.Fatalf("trend = %d points, want 10", len(report.Trend))
	}
	// Window keeps the most recent 10, still oldest first.
	if report.Trend[0].ExamID != 5 || report.Trend[9].ExamID != 14 {
		t.Errorf("trend spans exams %d..%d, want 5..14", report.Trend[0].ExamID, report.Trend[9].ExamID)
	}
}

func TestStudentReportAccess(t *testing.T) {
	svc := NewStatsService(&fakeStatsStore{}, &fakeCourseStore{})

	if _, err := svc.StudentReport(context.Background(), 100, Caller{UserID: 101, Role: model.RoleStudent}); !errors.Is(err, ErrForbidden) {
		t.Errorf("other student err = %v, want ErrForbidden", err)
	}
	if _, err := svc.StudentReport(context.Background(), 100, Caller{UserID: 1, Role: model.RoleTeacher}); err != nil {
		t.Errorf("teacher err = %v, want nil", err)
	}
	if _, err := svc.StudentReport(context.Background(), 100, Caller{UserID: 100, Role: model.RoleStudent}); err != nil {
		t.Errorf("self err = %v, want nil", err)
	}
}

func closeTo(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
