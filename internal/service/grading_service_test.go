package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/examgrid/examgrid-backend/internal/grading"
	"github.com/examgrid/examgrid-backend/internal/model"
	"github.com/examgrid/examgrid-backend/internal/repository"
)

type fakeSubmissionStore struct {
	submission *model.Submission
	statuses   []model.SubmissionStatus
	finalScore int
	finishedAt time.Time
	finishErr  error
}

func (f *fakeSubmissionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Submission, error) {
	if f.submission == nil || f.submission.ID != id {
		return nil, errors.New("no rows in result set")
	}
	return f.submission, nil
}

func (f *fakeSubmissionStore) SetStatus(_ context.Context, _ uuid.UUID, status model.SubmissionStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeSubmissionStore) FinishGrading(_ context.Context, _ uuid.UUID, score int, gradedAt time.Time) error {
	if f.finishErr != nil {
		return f.finishErr
	}
	f.finalScore = score
	f.finishedAt = gradedAt
	f.statuses = append(f.statuses, model.SubmissionStatusGraded)
	return nil
}

type savedGrade struct {
	answerID     uuid.UUID
	isCorrect    bool
	pointsEarned int
	feedback     string
	gradedAt     time.Time
}

type fakeAnswerStore struct {
	pairs   []repository.GradedPair
	saved   []savedGrade
	saveErr error
}

func (f *fakeAnswerStore) ListBySubmissionWithQuestions(_ context.Context, _ uuid.UUID) ([]repository.GradedPair, error) {
	return f.pairs, nil
}

func (f *fakeAnswerStore) SaveGrade(_ context.Context, id uuid.UUID, isCorrect bool, pointsEarned int, feedback string, gradedAt time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, savedGrade{id, isCorrect, pointsEarned, feedback, gradedAt})
	return nil
}

func pair(qt model.QuestionType, expected, given string, points int) repository.GradedPair {
	return repository.GradedPair{
		Answer: model.Answer{
			ID:            uuid.New(),
			QuestionID:    uuid.New(),
			StudentAnswer: given,
		},
		Question: model.Question{
			ID:             uuid.New(),
			QuestionType:   qt,
			ExpectedAnswer: expected,
			Points:         points,
		},
	}
}

func TestGradeSubmissionTotals(t *testing.T) {
	subID := uuid.New()
	subs := &fakeSubmissionStore{
		submission: &model.Submission{
			ID:        subID,
			ExamID:    uuid.New(),
			StudentID: 7,
			Status:    model.SubmissionStatusSubmitted,
		},
	}
	answers := &fakeAnswerStore{
		pairs: []repository.GradedPair{
			pair(model.QuestionTypeMultipleChoice, "B", "b", 5),
			pair(model.QuestionTypeTrueFalse, "True", "false", 5),
			pair(model.QuestionTypeShortAnswer, "Mitochondria", "Mitochondrion", 10),
		},
	}

	svc := NewGradingService(subs, answers, grading.NewLocalGrader(), nil, zerolog.Nop())

	total, max, err := svc.GradeSubmission(context.Background(), subID)
	if err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	if total != 13 {
		t.Errorf("total = %d, want 13", total)
	}
	if max != 20 {
		t.Errorf("max = %d, want 20", max)
	}
	if subs.finalScore != 13 {
		t.Errorf("persisted score = %d, want 13", subs.finalScore)
	}
	if len(answers.saved) != 3 {
		t.Fatalf("saved %d grades, want 3", len(answers.saved))
	}
	if !answers.saved[0].isCorrect || answers.saved[0].pointsEarned != 5 {
		t.Errorf("first answer grade = %+v, want correct with 5 points", answers.saved[0])
	}
	if answers.saved[1].isCorrect || answers.saved[1].pointsEarned != 0 {
		t.Errorf("second answer grade = %+v, want incorrect with 0 points", answers.saved[1])
	}
	if answers.saved[2].pointsEarned != 8 {
		t.Errorf("third answer points = %d, want 8", answers.saved[2].pointsEarned)
	}
	for _, g := range answers.saved {
		if g.gradedAt.IsZero() {
			t.Error("answer graded_at not set")
		}
	}
}

func TestGradeSubmissionStatusTransitions(t *testing.T) {
	subID := uuid.New()
	subs := &fakeSubmissionStore{
		submission: &model.Submission{ID: subID, ExamID: uuid.New(), StudentID: 1},
	}
	answers := &fakeAnswerStore{
		pairs: []repository.GradedPair{
			pair(model.QuestionTypeMultipleChoice, "A", "A", 2),
		},
	}

	svc := NewGradingService(subs, answers, grading.NewLocalGrader(), nil, zerolog.Nop())

	if _, _, err := svc.GradeSubmission(context.Background(), subID); err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}

	want := []model.SubmissionStatus{model.SubmissionStatusGrading, model.SubmissionStatusGraded}
	if len(subs.statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", subs.statuses, want)
	}
	for i := range want {
		if subs.statuses[i] != want[i] {
			t.Errorf("statuses[%d] = %s, want %s", i, subs.statuses[i], want[i])
		}
	}
	if subs.finishedAt.IsZero() {
		t.Error("submission graded_at not set")
	}
}

func TestGradeSubmissionEmptyAnswers(t *testing.T) {
	subID := uuid.New()
	subs := &fakeSubmissionStore{
		submission: &model.Submission{ID: subID, ExamID: uuid.New(), StudentID: 1},
	}
	answers := &fakeAnswerStore{}

	svc := NewGradingService(subs, answers, grading.NewLocalGrader(), nil, zerolog.Nop())

	total, max, err := svc.GradeSubmission(context.Background(), subID)
	if err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	if total != 0 || max != 0 {
		t.Errorf("got (%d, %d), want (0, 0)", total, max)
	}
	if subs.finalScore != 0 {
		t.Errorf("persisted score = %d, want 0", subs.finalScore)
	}
}

func TestGradeSubmissionSaveFailureAborts(t *testing.T) {
	subID := uuid.New()
	subs := &fakeSubmissionStore{
		submission: &model.Submission{ID: subID, ExamID: uuid.New(), StudentID: 1},
	}
	answers := &fakeAnswerStore{
		pairs: []repository.GradedPair{
			pair(model.QuestionTypeMultipleChoice, "A", "A", 2),
		},
		saveErr: errors.New("connection reset"),
	}

	svc := NewGradingService(subs, answers, grading.NewLocalGrader(), nil, zerolog.Nop())

	if _, _, err := svc.GradeSubmission(context.Background(), subID); err == nil {
		t.Fatal("expected error when answer grade cannot be saved")
	}
	for _, st := range subs.statuses {
		if st == model.SubmissionStatusGraded {
			t.Error("submission must not be marked GRADED after a save failure")
		}
	}
}

func TestGradeSubmissionUnknownSubmission(t *testing.T) {
	svc := NewGradingService(&fakeSubmissionStore{}, &fakeAnswerStore{}, grading.NewLocalGrader(), nil, zerolog.Nop())

	if _, _, err := svc.GradeSubmission(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown submission")
	}
}

func TestGradeSubmissionUnsupportedType(t *testing.T) {
	subID := uuid.New()
	subs := &fakeSubmissionStore{
		submission: &model.Submission{ID: subID, ExamID: uuid.New(), StudentID: 1},
	}
	answers := &fakeAnswerStore{
		pairs: []repository.GradedPair{
			pair(model.QuestionType("matching"), "A-1", "A-1", 10),
		},
	}

	svc := NewGradingService(subs, answers, grading.NewLocalGrader(), nil, zerolog.Nop())

	total, max, err := svc.GradeSubmission(context.Background(), subID)
	if err != nil {
		t.Fatalf("GradeSubmission: %v", err)
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if max != 10 {
		t.Errorf("max = %d, want 10", max)
	}
	if answers.saved[0].feedback != "Unsupported question type" {
		t.Errorf("feedback = %q, want %q", answers.saved[0].feedback, "Unsupported question type")
	}
}
