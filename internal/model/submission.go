package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus enumerates submission lifecycle states. A submission moves
// SUBMITTED -> GRADING -> GRADED; grading failures leave it in GRADING for the
// worker to retry, never in a half-graded terminal state.
type SubmissionStatus string

const (
	SubmissionStatusSubmitted SubmissionStatus = "SUBMITTED"
	SubmissionStatusGrading   SubmissionStatus = "GRADING"
	SubmissionStatusGraded    SubmissionStatus = "GRADED"
)

// Submission represents one student's attempt at an exam.
type Submission struct {
	ID               uuid.UUID        `json:"id"`
	ExamID           uuid.UUID        `json:"exam_id"`
	StudentID        int              `json:"student_id"`
	Score            *int             `json:"score,omitempty"`
	MaxPossibleScore int              `json:"max_possible_score"`
	Status           SubmissionStatus `json:"status"`
	SubmittedAt      time.Time        `json:"submitted_at"`
	GradedAt         *time.Time       `json:"graded_at,omitempty"`
}

// Answer is one free-text response within a submission. Grading fields are nil
// until the grading worker has processed the submission.
type Answer struct {
	ID            uuid.UUID  `json:"id"`
	SubmissionID  uuid.UUID  `json:"submission_id"`
	QuestionID    uuid.UUID  `json:"question_id"`
	StudentAnswer string     `json:"student_answer"`
	IsCorrect     *bool      `json:"is_correct,omitempty"`
	PointsEarned  *int       `json:"points_earned,omitempty"`
	Feedback      string     `json:"feedback,omitempty"`
	GradedAt      *time.Time `json:"graded_at,omitempty"`
}

// AnswerInput is a single answer within a submission payload.
type AnswerInput struct {
	QuestionID    uuid.UUID `json:"question_id" binding:"required"`
	StudentAnswer string    `json:"student_answer" binding:"max=20000"`
}

// CreateSubmissionRequest is the payload for submitting exam answers.
type CreateSubmissionRequest struct {
	ExamID  uuid.UUID     `json:"exam_id" binding:"required"`
	Answers []AnswerInput `json:"answers" binding:"required,min=1,dive"`
}
