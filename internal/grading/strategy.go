package grading

import (
	"context"

	"github.com/examgrid/examgrid-backend/internal/model"
)

// Result is the outcome of grading a single answer. PointsEarned is always
// within [0, question.Points]; every code path in this package produces a
// well-formed Result, there are no grading errors.
type Result struct {
	IsCorrect    bool   `json:"is_correct"`
	PointsEarned int    `json:"points_earned"`
	Feedback     string `json:"feedback"`
}

// Strategy grades one student answer against one question.
type Strategy interface {
	Grade(ctx context.Context, q model.Question, studentAnswer string) Result
}

// Grader routes each question to the strategy registered for its type.
// Unknown types are a handled case, not an error.
type Grader struct {
	strategies map[model.QuestionType]Strategy
}

// NewLocalGrader installs the built-in algorithmic strategies.
func NewLocalGrader() *Grader {
	exact := ExactMatchStrategy{}
	return &Grader{
		strategies: map[model.QuestionType]Strategy{
			model.QuestionTypeMultipleChoice: exact,
			model.QuestionTypeTrueFalse:      exact,
			model.QuestionTypeShortAnswer:    ShortAnswerStrategy{},
			model.QuestionTypeEssay:          EssayStrategy{},
		},
	}
}

// NewRemoteGrader routes every supported question type through remote.
// The remote strategy carries its own per-type local fallback, so this
// grader degrades gracefully when the evaluator is unavailable.
func NewRemoteGrader(remote Strategy) *Grader {
	return &Grader{
		strategies: map[model.QuestionType]Strategy{
			model.QuestionTypeMultipleChoice: remote,
			model.QuestionTypeTrueFalse:      remote,
			model.QuestionTypeShortAnswer:    remote,
			model.QuestionTypeEssay:          remote,
		},
	}
}

// Grade dispatches to the strategy for q's type.
func (g *Grader) Grade(ctx context.Context, q model.Question, studentAnswer string) Result {
	s, ok := g.strategies[q.QuestionType]
	if !ok {
		return Result{
			IsCorrect:    false,
			PointsEarned: 0,
			Feedback:     "Unsupported question type",
		}
	}
	return s.Grade(ctx, q, studentAnswer)
}
