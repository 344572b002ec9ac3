package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
)

// Caller identifies the authenticated user performing a request.
type Caller struct {
	UserID int64
	Role   model.Role
}

// CourseStore is the course access the statistics flow needs.
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*model.Course, error)
}

// StatsStore reads the raw rows that reports are computed from.
type StatsStore interface {
	CountEnrollments(ctx context.Context, courseID int64) (int, error)
	CountExams(ctx context.Context, courseID int64) (int, error)
	ListExamRefs(ctx context.Context, courseID int64) ([]repository.ExamRef, error)
	ListCourseSubmissionScores(ctx context.Context, courseID int64) ([]repository.SubmissionScore, error)
	ListCourseTopicAnswers(ctx context.Context, courseID int64) ([]repository.TopicAnswer, error)
	CountEnrolledExams(ctx context.Context, studentID int64) (int, error)
	ListStudentCourses(ctx context.Context, studentID int64) ([]repository.CourseRef, error)
	ListStudentSubmissions(ctx context.Context, studentID int64) ([]repository.StudentSubmission, error)
	ListStudentTopicAnswers(ctx context.Context, studentID int64) ([]repository.TopicAnswer, error)
}

// ExamStats is one exam's rollup inside a course report.
type ExamStats struct {
	repository.ExamRef
	SubmissionCount   int     `json:"submission_count"`
	AveragePercentage float64 `json:"average_percentage"`
}

// TopicStats is one topic tag's rollup.
type TopicStats struct {
	Topic             string  `json:"topic"`
	Attempts          int     `json:"attempts"`
	AveragePercentage float64 `json:"average_percentage"`
}

// GradeBucket is one slice of the fixed grade distribution.
type GradeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CourseReport is the on-demand rollup of everything submitted in a course.
type CourseReport struct {
	CourseID          int64         `json:"course_id"`
	StudentCount      int           `json:"student_count"`
	ExamCount         int           `json:"exam_count"`
	SubmissionCount   int           `json:"submission_count"`
	AveragePercentage float64       `json:"average_percentage"`
	Exams             []ExamStats   `json:"exams"`
	Topics            []TopicStats  `json:"topics"`
	Distribution      []GradeBucket `json:"distribution"`
}

// CourseStats is one course's rollup inside a student report.
type CourseStats struct {
	repository.CourseRef
	CompletedCount    int     `json:"completed_count"`
	AveragePercentage float64 `json:"average_percentage"`
}

// TrendPoint is one submission's percentage on a student's trend line.
type TrendPoint struct {
	ExamID      int64     `json:"exam_id"`
	ExamTitle   string    `json:"exam_title"`
	SubmittedAt time.Time `json:"submitted_at"`
	Percentage  float64   `json:"percentage"`
}

// HistoryEntry is one row of a student's full submission history.
type HistoryEntry struct {
	ExamTitle   string    `json:"exam_title"`
	CourseName  string    `json:"course_name"`
	SubmittedAt time.Time `json:"submitted_at"`
	Percentage  float64   `json:"percentage"`
}

// StudentReport is the on-demand rollup of one student's performance.
type StudentReport struct {
	StudentID         int64          `json:"student_id"`
	EnrolledExamCount int            `json:"enrolled_exam_count"`
	CompletedCount    int            `json:"completed_count"`
	AveragePercentage float64        `json:"average_percentage"`
	Courses           []CourseStats  `json:"courses"`
	Trend             []TrendPoint   `json:"trend"`
	Topics            []TopicStats   `json:"topics"`
	History           []HistoryEntry `json:"history"`
}

// Grade-bucket cutoffs on percentage, applied top down. Every submission
// with a gradable denominator lands in exactly one bucket.
var gradeBuckets = []struct {
	label string
	min   float64
}{
	{"A (90-100)", 90},
	{"B (80-89)", 80},
	{"C (70-79)", 70},
	{"D (60-69)", 60},
	{"F (0-59)", 0},
}

const trendWindow = 10

// StatsService computes course and student reports on demand. All
// averaging, bucketing, ordering and windowing happens here, on raw rows
// from the store; nothing is cached.
type StatsService struct {
	store   StatsStore
	courses CourseStore
}

// NewStatsService creates a new StatsService.
func NewStatsService(store StatsStore, courses CourseStore) *StatsService {
	return &StatsService{store: store, courses: courses}
}

// CourseReport builds the rollup for a course. Only the owning teacher may
// view it.
func (s *StatsService) CourseReport(ctx context.Context, courseID int64, caller Caller) (*CourseReport, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if caller.Role != model.RoleTeacher || course.TeacherID != caller.UserID {
		return nil, ErrForbidden
	}

	report := &CourseReport{CourseID: courseID}

	if report.StudentCount, err = s.store.CountEnrollments(ctx, courseID); err != nil {
		return nil, err
	}
	if report.ExamCount, err = s.store.CountExams(ctx, courseID); err != nil {
		return nil, err
	}

	subs, err := s.store.ListCourseSubmissionScores(ctx, courseID)
	if err != nil {
		return nil, err
	}
	report.SubmissionCount = len(subs)
	report.AveragePercentage = averagePercentage(subs)

	refs, err := s.store.ListExamRefs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	report.Exams = examStats(refs, subs)

	topicRows, err := s.store.ListCourseTopicAnswers(ctx, courseID)
	if err != nil {
		return nil, err
	}
	// Ascending: the hardest topics lead the course view.
	report.Topics = topicStats(topicRows, true)

	report.Distribution = distribution(subs)

	return report, nil
}

// StudentReport builds the rollup for a student. Only the student themself
// or a teacher may view it.
func (s *StatsService) StudentReport(ctx context.Context, studentID int64, caller Caller) (*StudentReport, error) {
	if caller.Role != model.RoleTeacher && caller.UserID != studentID {
		return nil, ErrForbidden
	}

	report := &StudentReport{StudentID: studentID}

	var err error
	if report.EnrolledExamCount, err = s.store.CountEnrolledExams(ctx, studentID); err != nil {
		return nil, err
	}

	subs, err := s.store.ListStudentSubmissions(ctx, studentID)
	if err != nil {
		return nil, err
	}
	report.CompletedCount = len(subs)

	scores := make([]repository.SubmissionScore, len(subs))
	for i, sub := range subs {
		scores[i] = sub.SubmissionScore
	}
	report.AveragePercentage = averagePercentage(scores)

	courses, err := s.store.ListStudentCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}
	report.Courses = courseStats(courses, subs)

	report.Trend = trend(subs)

	topicRows, err := s.store.ListStudentTopicAnswers(ctx, studentID)
	if err != nil {
		return nil, err
	}
	// Descending: the strongest topics lead the student view.
	report.Topics = topicStats(topicRows, false)

	report.History = history(subs)

	return report, nil
}

// percentage returns a submission's score normalized against its exam's
// maximum. The second return is false when the exam has no scoreable
// questions; such submissions never enter an average or a bucket.
func percentage(s repository.SubmissionScore) (float64, bool) {
	if s.MaxSum <= 0 {
		return 0, false
	}
	return s.Total / s.MaxSum * 100, true
}

func averagePercentage(subs []repository.SubmissionScore) float64 {
	var sum float64
	var n int
	for _, s := range subs {
		if pct, ok := percentage(s); ok {
			sum += pct
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func examStats(refs []repository.ExamRef, subs []repository.SubmissionScore) []ExamStats {
	byExam := make(map[int64][]repository.SubmissionScore)
	for _, s := range subs {
		byExam[s.ExamID] = append(byExam[s.ExamID], s)
	}

	stats := make([]ExamStats, len(refs))
	for i, ref := range refs {
		examSubs := byExam[ref.ID]
		stats[i] = ExamStats{
			ExamRef:           ref,
			SubmissionCount:   len(examSubs),
			AveragePercentage: averagePercentage(examSubs),
		}
	}
	return stats
}

func courseStats(refs []repository.CourseRef, subs []repository.StudentSubmission) []CourseStats {
	byCourse := make(map[int64][]repository.SubmissionScore)
	for _, s := range subs {
		byCourse[s.CourseID] = append(byCourse[s.CourseID], s.SubmissionScore)
	}

	stats := make([]CourseStats, len(refs))
	for i, ref := range refs {
		courseSubs := byCourse[ref.ID]
		stats[i] = CourseStats{
			CourseRef:         ref,
			CompletedCount:    len(courseSubs),
			AveragePercentage: averagePercentage(courseSubs),
		}
	}
	return stats
}

// topicStats averages per-answer percentages grouped by topic tag.
// Ascending order surfaces weak topics first; descending, strong first.
// Ties break alphabetically so the ordering is deterministic.
func topicStats(rows []repository.TopicAnswer, ascending bool) []TopicStats {
	type acc struct {
		sum float64
		n   int
	}
	byTopic := make(map[string]*acc)
	for _, r := range rows {
		if r.MaxScore <= 0 {
			continue
		}
		a := byTopic[r.Topic]
		if a == nil {
			a = &acc{}
			byTopic[r.Topic] = a
		}
		a.sum += r.Score / r.MaxScore * 100
		a.n++
	}

	stats := make([]TopicStats, 0, len(byTopic))
	for topic, a := range byTopic {
		stats = append(stats, TopicStats{
			Topic:             topic,
			Attempts:          a.n,
			AveragePercentage: a.sum / float64(a.n),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].AveragePercentage != stats[j].AveragePercentage {
			if ascending {
				return stats[i].AveragePercentage < stats[j].AveragePercentage
			}
			return stats[i].AveragePercentage > stats[j].AveragePercentage
		}
		return stats[i].Topic < stats[j].Topic
	})
	return stats
}

// distribution buckets every gradable submission by its percentage.
// All five buckets are always present, zero counts included.
func distribution(subs []repository.SubmissionScore) []GradeBucket {
	buckets := make([]GradeBucket, len(gradeBuckets))
	for i, b := range gradeBuckets {
		buckets[i] = GradeBucket{Label: b.label}
	}
	for _, s := range subs {
		pct, ok := percentage(s)
		if !ok {
			continue
		}
		for i, b := range gradeBuckets {
			if pct >= b.min {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// trend windows the most recent submissions and returns them oldest first.
// Input rows arrive in chronological order from the store.
func trend(subs []repository.StudentSubmission) []TrendPoint {
	start := 0
	if len(subs) > trendWindow {
		start = len(subs) - trendWindow
	}

	points := make([]TrendPoint, 0, len(subs)-start)
	for _, s := range subs[start:] {
		pct, _ := percentage(s.SubmissionScore)
		points = append(points, TrendPoint{
			ExamID:      s.ExamID,
			ExamTitle:   s.ExamTitle,
			SubmittedAt: s.SubmittedAt,
			Percentage:  pct,
		})
	}
	return points
}

// history lists every submission newest first.
func history(subs []repository.StudentSubmission) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(subs))
	for i := len(subs) - 1; i >= 0; i-- {
		s := subs[i]
		pct, _ := percentage(s.SubmissionScore)
		entries = append(entries, HistoryEntry{
			ExamTitle:   s.ExamTitle,
			CourseName:  s.CourseName,
			SubmittedAt: s.SubmittedAt,
			Percentage:  pct,
		})
	}
	return entries
}
