package grading

import (
	"context"
	"fmt"

	"github.com/examgrid/examgrid-backend/internal/model"
)

// ExactMatchStrategy grades multiple_choice and true_false questions. The
// answer space is discrete and small, so credit is all-or-nothing.
type ExactMatchStrategy struct{}

// Grade compares the normalized texts for equality.
func (ExactMatchStrategy) Grade(_ context.Context, q model.Question, studentAnswer string) Result {
	if Normalize(q.ExpectedAnswer) == Normalize(studentAnswer) {
		return Result{
			IsCorrect:    true,
			PointsEarned: q.Points,
			Feedback:     "Correct!",
		}
	}
	return Result{
		IsCorrect:    false,
		PointsEarned: 0,
		Feedback:     fmt.Sprintf("Expected: %s", q.ExpectedAnswer),
	}
}
