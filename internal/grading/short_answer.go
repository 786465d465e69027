package grading

import (
	"context"

	"github.com/examgrid/examgrid-backend/internal/model"
)

// ShortAnswerStrategy grades short_answer questions by string similarity,
// awarding partial credit for near-misses and typos.
type ShortAnswerStrategy struct{}

// Grade maps the similarity ratio onto four bands, highest threshold first.
// Partial point values truncate rather than round.
func (ShortAnswerStrategy) Grade(_ context.Context, q model.Question, studentAnswer string) Result {
	similarity := Ratio(Normalize(q.ExpectedAnswer), Normalize(studentAnswer))

	switch {
	case similarity >= 0.9:
		return Result{
			IsCorrect:    true,
			PointsEarned: q.Points,
			Feedback:     "Excellent answer!",
		}
	case similarity >= 0.7:
		return Result{
			IsCorrect:    true,
			PointsEarned: int(float64(q.Points) * 0.8),
			Feedback:     "Good answer with minor issues. Partial credit awarded.",
		}
	case similarity >= 0.5:
		return Result{
			IsCorrect:    false,
			PointsEarned: int(float64(q.Points) * 0.5),
			Feedback:     "Partially correct. Key concepts present but incomplete.",
		}
	default:
		return Result{
			IsCorrect:    false,
			PointsEarned: 0,
			Feedback:     "Answer does not match expected response.",
		}
	}
}
