package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examgrid/examgrid-backend/internal/config"
	"github.com/examgrid/examgrid-backend/internal/grading"
	"github.com/examgrid/examgrid-backend/internal/model"
	"github.com/examgrid/examgrid-backend/internal/repository"
)

// submissionStore is the slice of SubmissionRepository the grader needs.
type submissionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.SubmissionStatus) error
	FinishGrading(ctx context.Context, id uuid.UUID, score int, gradedAt time.Time) error
}

// answerStore is the slice of AnswerRepository the grader needs.
type answerStore interface {
	ListBySubmissionWithQuestions(ctx context.Context, submissionID uuid.UUID) ([]repository.GradedPair, error)
	SaveGrade(ctx context.Context, id uuid.UUID, isCorrect bool, pointsEarned int, feedback string, gradedAt time.Time) error
}

// GradingEvent is published to the exam's Redis channel after a submission
// finishes grading. The teacher monitor WebSocket relays it to clients.
type GradingEvent struct {
	SubmissionID     uuid.UUID `json:"submission_id"`
	ExamID           uuid.UUID `json:"exam_id"`
	StudentID        int       `json:"student_id"`
	Score            int       `json:"score"`
	MaxPossibleScore int       `json:"max_possible_score"`
	Status           string    `json:"status"`
	GradedAt         time.Time `json:"graded_at"`
}

// GradingService orchestrates grading of a whole submission: it walks every
// answer through the configured grading strategies, writes per-answer results
// back, and seals the submission with its final score.
type GradingService struct {
	submissions submissionStore
	answers     answerStore
	grader      *grading.Grader
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewGradingService creates a GradingService. rdb may be nil, in which case
// no grading events are published.
func NewGradingService(submissions submissionStore, answers answerStore, grader *grading.Grader, rdb *redis.Client, log zerolog.Logger) *GradingService {
	return &GradingService{
		submissions: submissions,
		answers:     answers,
		grader:      grader,
		rdb:         rdb,
		log:         log.With().Str("component", "grading_service").Logger(),
	}
}

// GradeSubmission grades every answer in the submission and returns the total
// earned score and the maximum possible score. The submission is marked
// GRADING for the duration, and GRADED only once every answer has a result
// persisted. Any storage error aborts midway so the worker can retry.
func (s *GradingService) GradeSubmission(ctx context.Context, submissionID uuid.UUID) (int, int, error) {
	sub, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return 0, 0, fmt.Errorf("get submission: %w", err)
	}

	if err := s.submissions.SetStatus(ctx, submissionID, model.SubmissionStatusGrading); err != nil {
		return 0, 0, fmt.Errorf("mark grading: %w", err)
	}

	pairs, err := s.answers.ListBySubmissionWithQuestions(ctx, submissionID)
	if err != nil {
		return 0, 0, fmt.Errorf("load answers: %w", err)
	}

	totalScore := 0
	maxScore := 0
	for _, pair := range pairs {
		result := s.grader.Grade(ctx, pair.Question, pair.Answer.StudentAnswer)
		gradedAt := time.Now().UTC()

		if err := s.answers.SaveGrade(ctx, pair.Answer.ID, result.IsCorrect, result.PointsEarned, result.Feedback, gradedAt); err != nil {
			return 0, 0, fmt.Errorf("save answer grade: %w", err)
		}

		totalScore += result.PointsEarned
		maxScore += pair.Question.Points
	}

	gradedAt := time.Now().UTC()
	if err := s.submissions.FinishGrading(ctx, submissionID, totalScore, gradedAt); err != nil {
		return 0, 0, fmt.Errorf("finish grading: %w", err)
	}

	s.log.Info().
		Str("submission_id", submissionID.String()).
		Int("score", totalScore).
		Int("max_score", maxScore).
		Int("answers", len(pairs)).
		Msg("submission graded")

	s.publish(ctx, GradingEvent{
		SubmissionID:     submissionID,
		ExamID:           sub.ExamID,
		StudentID:        sub.StudentID,
		Score:            totalScore,
		MaxPossibleScore: maxScore,
		Status:           string(model.SubmissionStatusGraded),
		GradedAt:         gradedAt,
	})

	return totalScore, maxScore, nil
}

func (s *GradingService) publish(ctx context.Context, event GradingEvent) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	channel := config.CacheKey.GradingChannel(event.ExamID.String())
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("failed to publish grading event")
	}
}
