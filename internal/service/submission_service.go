package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examgrid/examgrid-backend/internal/config"
	"github.com/examgrid/examgrid-backend/internal/model"
	"github.com/examgrid/examgrid-backend/internal/repository"
)

// Common submission errors.
var (
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrDuplicateSubmission = errors.New("exam already submitted")
	ErrNotSubmissionOwner  = errors.New("submission belongs to another student")
)

// SubmissionDetail bundles a submission with its graded answers.
type SubmissionDetail struct {
	Submission *model.Submission `json:"submission"`
	Answers    []model.Answer    `json:"answers"`
}

// GradeJob is the queue payload consumed by the grading worker.
type GradeJob struct {
	SubmissionID uuid.UUID `json:"submission_id"`
}

// SubmissionService accepts exam submissions and hands them to the grading
// pipeline.
type SubmissionService struct {
	submissionRepo *repository.SubmissionRepository
	answerRepo     *repository.AnswerRepository
	examRepo       *repository.ExamRepository
	questionRepo   *repository.QuestionRepository
	grading        *GradingService
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	answerRepo *repository.AnswerRepository,
	examRepo *repository.ExamRepository,
	questionRepo *repository.QuestionRepository,
	grading *GradingService,
	rdb *redis.Client,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		answerRepo:     answerRepo,
		examRepo:       examRepo,
		questionRepo:   questionRepo,
		grading:        grading,
		rdb:            rdb,
		log:            log.With().Str("component", "submission_service").Logger(),
	}
}

// Create records a student's answers for a published exam and queues the
// submission for grading. Each student gets exactly one attempt per exam.
func (s *SubmissionService) Create(ctx context.Context, studentID int, req model.CreateSubmissionRequest) (*model.Submission, error) {
	exam, err := s.examRepo.GetByID(ctx, req.ExamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExamNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	if exam.Status != model.ExamStatusPublished {
		return nil, ErrExamNotPublished
	}

	taken, err := s.submissionRepo.ExistsByExamAndStudent(ctx, req.ExamID, studentID)
	if err != nil {
		return nil, fmt.Errorf("check existing submission: %w", err)
	}
	if taken {
		return nil, ErrDuplicateSubmission
	}

	questions, err := s.questionRepo.ListByExam(ctx, req.ExamID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	byID := make(map[uuid.UUID]model.Question, len(questions))
	maxScore := 0
	for _, q := range questions {
		byID[q.ID] = q
		maxScore += q.Points
	}

	answers := make([]model.Answer, 0, len(req.Answers))
	for _, in := range req.Answers {
		if _, ok := byID[in.QuestionID]; !ok {
			return nil, ErrQuestionNotFound
		}
		answers = append(answers, model.Answer{
			QuestionID:    in.QuestionID,
			StudentAnswer: in.StudentAnswer,
		})
	}

	submission := &model.Submission{
		ExamID:           req.ExamID,
		StudentID:        studentID,
		MaxPossibleScore: maxScore,
		Status:           model.SubmissionStatusSubmitted,
	}
	if err := s.submissionRepo.CreateWithAnswers(ctx, submission, answers); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.enqueueGrading(ctx, submission.ID)
	return submission, nil
}

// enqueueGrading pushes the submission onto the grading queue. If Redis is
// down the submission is graded inline so it never gets stuck in SUBMITTED.
func (s *SubmissionService) enqueueGrading(ctx context.Context, submissionID uuid.UUID) {
	payload, _ := json.Marshal(GradeJob{SubmissionID: submissionID})
	err := s.rdb.RPush(ctx, config.WorkerKey.GradeSubmissionsQueue, payload).Err()
	if err == nil {
		return
	}

	s.log.Warn().Err(err).
		Str("submission_id", submissionID.String()).
		Msg("enqueue failed, grading inline")
	if _, _, err := s.grading.GradeSubmission(ctx, submissionID); err != nil {
		s.log.Error().Err(err).
			Str("submission_id", submissionID.String()).
			Msg("inline grading failed")
	}
}

// ListMine returns the student's submissions, newest first.
func (s *SubmissionService) ListMine(ctx context.Context, studentID int) ([]model.Submission, error) {
	return s.submissionRepo.ListByStudent(ctx, studentID)
}

// ListByExam returns all submissions for an exam the teacher authored.
func (s *SubmissionService) ListByExam(ctx context.Context, authorID int, examID uuid.UUID) ([]model.Submission, error) {
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
	return s.submissionRepo.ListByExam(ctx, examID)
}

// GetDetail returns a submission with its answers. Students may only see
// their own submissions; teachers may see submissions to exams they authored.
func (s *SubmissionService) GetDetail(ctx context.Context, requesterID int, role model.Role, submissionID uuid.UUID) (*SubmissionDetail, error) {
	submission, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("get submission: %w", err)
	}

	switch role {
	case model.RoleStudent:
		if submission.StudentID != requesterID {
			return nil, ErrNotSubmissionOwner
		}
	case model.RoleTeacher:
		exam, err := s.examRepo.GetByID(ctx, submission.ExamID)
		if err != nil {
			return nil, fmt.Errorf("get exam: %w", err)
		}
		if exam.CreatedBy != requesterID {
			return nil, ErrNotExamAuthor
		}
	default:
		return nil, ErrNotSubmissionOwner
	}

	answers, err := s.answerRepo.ListBySubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return &SubmissionDetail{Submission: submission, Answers: answers}, nil
}
