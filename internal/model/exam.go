package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamStatus enumerates exam lifecycle states.
type ExamStatus string

const (
	ExamStatusDraft     ExamStatus = "DRAFT"
	ExamStatusPublished ExamStatus = "PUBLISHED"
)

// Exam represents an authored exam.
type Exam struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Course          string     `json:"course"`
	DurationMinutes int        `json:"duration_minutes"`
	Instructions    string     `json:"instructions"`
	PassingScore    *int       `json:"passing_score,omitempty"`
	Status          ExamStatus `json:"status"`
	CreatedBy       int        `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ExamSummary is an exam as listed to students, with its question count.
type ExamSummary struct {
	Exam
	QuestionCount int `json:"question_count"`
}

// CreateExamRequest is the payload for creating or updating an exam.
type CreateExamRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	Course          string `json:"course" binding:"required,min=1,max=100"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	Instructions    string `json:"instructions" binding:"max=5000"`
	PassingScore    *int   `json:"passing_score" binding:"omitempty,min=0"`
}
