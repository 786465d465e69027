package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/examgrid/examgrid-backend/internal/model"
	"github.com/examgrid/examgrid-backend/internal/repository"
)

// Common exam errors.
var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrNotExamAuthor    = errors.New("exam belongs to another teacher")
	ErrExamNotDraft     = errors.New("exam is no longer a draft")
	ErrExamNotPublished = errors.New("exam is not published")
	ErrExamNoQuestions  = errors.New("exam has no questions")
	ErrQuestionNotFound = errors.New("question not found")
)

// ExamDetail bundles an exam with its full question list for the author.
type ExamDetail struct {
	Exam      *model.Exam      `json:"exam"`
	Questions []model.Question `json:"questions"`
}

// StudentExamDetail is the answer-key-free view served to students.
type StudentExamDetail struct {
	Exam      *model.Exam             `json:"exam"`
	Questions []model.StudentQuestion `json:"questions"`
}

// ExamService implements exam authoring and the student-facing catalog.
type ExamService struct {
	examRepo     *repository.ExamRepository
	questionRepo *repository.QuestionRepository
}

// NewExamService creates a new ExamService.
func NewExamService(examRepo *repository.ExamRepository, questionRepo *repository.QuestionRepository) *ExamService {
	return &ExamService{examRepo: examRepo, questionRepo: questionRepo}
}

// Create starts a new draft exam owned by the teacher.
func (s *ExamService) Create(ctx context.Context, authorID int, req model.CreateExamRequest) (*model.Exam, error) {
	exam := &model.Exam{
		Title:           req.Title,
		Course:          req.Course,
		DurationMinutes: req.DurationMinutes,
		Instructions:    req.Instructions,
		PassingScore:    req.PassingScore,
		Status:          model.ExamStatusDraft,
		CreatedBy:       authorID,
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return exam, nil
}

// Update edits a draft's title and description. Published exams are frozen.
func (s *ExamService) Update(ctx context.Context, authorID int, examID uuid.UUID, req model.CreateExamRequest) (*model.Exam, error) {
	exam, err := s.authored(ctx, authorID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	exam.Title = req.Title
	exam.Course = req.Course
	exam.DurationMinutes = req.DurationMinutes
	exam.Instructions = req.Instructions
	exam.PassingScore = req.PassingScore
	if err := s.examRepo.Update(ctx, exam); err != nil {
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return exam, nil
}

// AddQuestion appends a question to a draft exam.
func (s *ExamService) AddQuestion(ctx context.Context, authorID int, examID uuid.UUID, req model.AddQuestionRequest) (*model.Question, error) {
	exam, err := s.authored(ctx, authorID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	existing, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	orderNum := req.OrderNum
	if orderNum == 0 {
		orderNum = len(existing) + 1
	}

	q := &model.Question{
		ExamID:         examID,
		QuestionType:   model.QuestionType(req.QuestionType),
		QuestionText:   req.QuestionText,
		ExpectedAnswer: req.ExpectedAnswer,
		Points:         req.Points,
		OrderNum:       orderNum,
	}
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// ReplaceQuestions swaps a draft exam's entire question set in one shot.
func (s *ExamService) ReplaceQuestions(ctx context.Context, authorID int, examID uuid.UUID, req model.ReplaceQuestionsRequest) ([]model.Question, error) {
	exam, err := s.authored(ctx, authorID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status != model.ExamStatusDraft {
		return nil, ErrExamNotDraft
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i, qr := range req.Questions {
		questions = append(questions, model.Question{
			ExamID:         examID,
			QuestionType:   model.QuestionType(qr.QuestionType),
			QuestionText:   qr.QuestionText,
			ExpectedAnswer: qr.ExpectedAnswer,
			Points:         qr.Points,
			OrderNum:       i + 1,
		})
	}
	if err := s.questionRepo.ReplaceAll(ctx, examID, questions); err != nil {
		return nil, fmt.Errorf("replace questions: %w", err)
	}
	return questions, nil
}

// Publish makes the exam visible to students. An exam without questions
// cannot be published.
func (s *ExamService) Publish(ctx context.Context, authorID int, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.authored(ctx, authorID, examID)
	if err != nil {
		return nil, err
	}
	if exam.Status == model.ExamStatusPublished {
		return exam, nil
	}

	questions, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrExamNoQuestions
	}

	if err := s.examRepo.SetStatus(ctx, examID, model.ExamStatusPublished); err != nil {
		return nil, fmt.Errorf("publish exam: %w", err)
	}
	exam.Status = model.ExamStatusPublished
	return exam, nil
}

// ListMine returns all exams authored by the teacher, newest first.
func (s *ExamService) ListMine(ctx context.Context, authorID int) ([]model.Exam, error) {
	return s.examRepo.ListByAuthor(ctx, authorID)
}

// GetDetail returns the exam plus questions, answer keys included.
// Only the author may see it.
func (s *ExamService) GetDetail(ctx context.Context, authorID int, examID uuid.UUID) (*ExamDetail, error) {
	exam, err := s.authored(ctx, authorID, examID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return &ExamDetail{Exam: exam, Questions: questions}, nil
}

// ListPublished returns the student-facing exam catalog.
func (s *ExamService) ListPublished(ctx context.Context) ([]model.ExamSummary, error) {
	return s.examRepo.ListPublished(ctx)
}

// GetStudentView returns a published exam with its questions stripped of
// expected answers.
func (s *ExamService) GetStudentView(ctx context.Context, examID uuid.UUID) (*StudentExamDetail, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, ErrExamNotFound
	}

	questions, err := s.questionRepo.ListByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	views := make([]model.StudentQuestion, 0, len(questions))
	for _, q := range questions {
		views = append(views, q.StudentView())
	}
	return &StudentExamDetail{Exam: exam, Questions: views}, nil
}

func (s *ExamService) authored(ctx context.Context, authorID int, examID uuid.UUID) (*model.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, examID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.CreatedBy != authorID {
		return nil, ErrNotExamAuthor
	}
	return exam, nil
}
