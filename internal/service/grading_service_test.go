package service

import (
	"context"
	"errors"
	"testing"

	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
)

func strPtr(s string) *string { return &s }

type fakeExamStore struct {
	exams     map[int64]*model.Exam
	questions map[int64][]model.Question
}

func (f *fakeExamStore) GetByID(_ context.Context, id int64) (*model.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return e, nil
}

func (f *fakeExamStore) ListQuestions(_ context.Context, examID int64) ([]model.Question, error) {
	return f.questions[examID], nil
}

type fakeSubmissionStore struct {
	nextID      int64
	submissions []*model.Submission
	answers     []*model.Answer
}

func (f *fakeSubmissionStore) GetByExamAndUser(_ context.Context, examID, userID int64) (*model.Submission, error) {
	for _, s := range f.submissions {
		if s.ExamID == examID && s.UserID == userID {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSubmissionStore) CreateWithAnswers(_ context.Context, sub *model.Submission, answers []model.Answer) error {
	for _, s := range f.submissions {
		if s.ExamID == sub.ExamID && s.UserID == sub.UserID {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	sub.ID = f.nextID
	stored := *sub
	f.submissions = append(f.submissions, &stored)
	for i := range answers {
		f.nextID++
		answers[i].ID = f.nextID
		answers[i].SubmissionID = sub.ID
		a := answers[i]
		f.answers = append(f.answers, &a)
	}
	return nil
}

func (f *fakeSubmissionStore) GradeAnswer(_ context.Context, answerID int64, score float64, feedback string) (float64, error) {
	var target *model.Answer
	for _, a := range f.answers {
		if a.ID == answerID {
			target = a
			break
		}
	}
	if target == nil {
		return 0, repository.ErrNotFound
	}
	target.Score = score
	target.Feedback = feedback

	var total float64
	for _, a := range f.answers {
		if a.SubmissionID == target.SubmissionID {
			total += a.Score
		}
	}
	for _, s := range f.submissions {
		if s.ID == target.SubmissionID {
			s.TotalScore = total
		}
	}
	return total, nil
}

func (f *fakeSubmissionStore) ListByExam(_ context.Context, examID int64) ([]repository.SubmissionWithAnswers, error) {
	var out []repository.SubmissionWithAnswers
	for _, s := range f.submissions {
		if s.ExamID != examID {
			continue
		}
		row := repository.SubmissionWithAnswers{Submission: *s}
		for _, a := range f.answers {
			if a.SubmissionID == s.ID {
				row.Answers = append(row.Answers, repository.GradedAnswer{Answer: *a})
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// newGradingFixture builds an exam with one multiple-choice question
// (max 2, correct "B") and one numeric question (max 3, correct "10").
func newGradingFixture() (*GradingService, *fakeSubmissionStore) {
	exams := &fakeExamStore{
		exams: map[int64]*model.Exam{
			1: {ID: 1, CourseID: 1, Title: "Midterm"},
		},
		questions: map[int64][]model.Question{
			1: {
				{ID: 10, ExamID: 1, Type: model.QuestionTypeChoice, CorrectAnswer: strPtr("B"), MaxScore: 2},
				{ID: 11, ExamID: 1, Type: model.QuestionTypeNumber, CorrectAnswer: strPtr("10"), MaxScore: 3},
			},
		},
	}
	subs := &fakeSubmissionStore{}
	return NewGradingService(exams, subs), subs
}

func TestSubmitFullMarks(t *testing.T) {
	svc, _ := newGradingFixture()

	sub, answers, err := svc.Submit(context.Background(), 1, 100, &model.SubmitExamRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: 10, Content: "B"},
			{QuestionID: 11, Content: "10"},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.TotalScore != 5 {
		t.Errorf("total = %v, want 5", sub.TotalScore)
	}
	if len(answers) != 2 {
		t.Fatalf("answers = %d, want 2", len(answers))
	}
}

func TestSubmitCaseInsensitiveChoiceStrictNumber(t *testing.T) {
	svc, _ := newGradingFixture()

	sub, answers, err := svc.Submit(context.Background(), 1, 100, &model.SubmitExamRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: 10, Content: "b"},
			{QuestionID: 11, Content: " 9.9"},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.TotalScore != 2 {
		t.Errorf("total = %v, want 2", sub.TotalScore)
	}
	if answers[0].Score != 2 || answers[1].Score != 0 {
		t.Errorf("scores = %v/%v, want 2/0", answers[0].Score, answers[1].Score)
	}
}

func TestSubmitOmittedQuestionStoredBlank(t *testing.T) {
	svc, store := newGradingFixture()

	sub, answers, err := svc.Submit(context.Background(), 1, 100, &model.SubmitExamRequest{
		Answers: []model.SubmittedAnswer{{QuestionID: 10, Content: "B"}},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("answers = %d, want one row per question", len(answers))
	}
	if answers[1].Content != "" || answers[1].Score != 0 {
		t.Errorf("omitted answer = %q score %v, want blank with 0", answers[1].Content, answers[1].Score)
	}
	if sub.TotalScore != 2 {
		t.Errorf("total = %v, want 2", sub.TotalScore)
	}
	if len(store.answers) != 2 {
		t.Errorf("persisted answers = %d, want 2", len(store.answers))
	}
}

func TestSubmitTwiceConflicts(t *testing.T) {
	svc, _ := newGradingFixture()
	req := &model.SubmitExamRequest{
		Answers: []model.SubmittedAnswer{{QuestionID: 10, Content: "B"}},
	}

	if _, _, err := svc.Submit(context.Background(), 1, 100, req); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if _, _, err := svc.Submit(context.Background(), 1, 100, req); !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("second Submit err = %v, want ErrAlreadySubmitted", err)
	}
}

func TestSubmitUnknownExam(t *testing.T) {
	svc, _ := newGradingFixture()

	_, _, err := svc.Submit(context.Background(), 999, 100, &model.SubmitExamRequest{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRegradeRecomputesTotal(t *testing.T) {
	svc, store := newGradingFixture()

	_, answers, err := svc.Submit(context.Background(), 1, 100, &model.SubmitExamRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: 10, Content: "B"},
			{QuestionID: 11, Content: "9.9"},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	total, err := svc.Regrade(context.Background(), answers[1].ID, 3, "rounding allowed")
	if err != nil {
		t.Fatalf("Regrade: %v", err)
	}
	if total != 5 {
		t.Errorf("total after regrade = %v, want 5", total)
	}

	// Idempotent: regrading to the same score changes nothing.
	total, err = svc.Regrade(context.Background(), answers[1].ID, 3, "rounding allowed")
	if err != nil {
		t.Fatalf("second Regrade: %v", err)
	}
	if total != 5 {
		t.Errorf("total after repeated regrade = %v, want 5", total)
	}
	if store.submissions[0].TotalScore != 5 {
		t.Errorf("persisted total = %v, want 5", store.submissions[0].TotalScore)
	}
}

func TestRegradeUnknownAnswer(t *testing.T) {
	svc, _ := newGradingFixture()

	if _, err := svc.Regrade(context.Background(), 404, 1, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRegradeAboveMaxAccepted(t *testing.T) {
	svc, _ := newGradingFixture()

	_, answers, err := svc.Submit(context.Background(), 1, 100, &model.SubmitExamRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: 10, Content: "B"},
			{QuestionID: 11, Content: "10"},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// Manual overrides are not clamped to the question maximum.
	total, err := svc.Regrade(context.Background(), answers[1].ID, 4, "bonus")
	if err != nil {
		t.Fatalf("Regrade: %v", err)
	}
	if total != 6 {
		t.Errorf("total = %v, want 6", total)
	}
}

func TestTotalAlwaysSumOfAnswers(t *testing.T) {
	svc, store := newGradingFixture()

	_, answers, err := svc.Submit(context.Background(), 1, 100, &model.SubmitExamRequest{
		Answers: []model.SubmittedAnswer{
			{QuestionID: 10, Content: "wrong"},
			{QuestionID: 11, Content: "10"},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	check := func() {
		var sum float64
		for _, a := range store.answers {
			sum += a.Score
		}
		if store.submissions[0].TotalScore != sum {
			t.Errorf("total = %v, answers sum = %v", store.submissions[0].TotalScore, sum)
		}
	}

	check()
	for _, score := range []float64{2, 0, 1.5} {
		if _, err := svc.Regrade(context.Background(), answers[0].ID, score, ""); err != nil {
			t.Fatalf("Regrade(%v): %v", score, err)
		}
		check()
	}
}
