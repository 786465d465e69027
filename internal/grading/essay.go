package grading

import (
	"context"
	"fmt"
	"strings"

	"github.com/examgrid/examgrid-backend/internal/model"
)

// EssayStrategy grades essay questions by keyword coverage of the expected
// answer, scaled down for very short essays.
type EssayStrategy struct{}

// Grade computes coverage of the reference keywords over the student text,
// applies a word-count length factor, and truncates the resulting points.
func (EssayStrategy) Grade(_ context.Context, q model.Question, studentAnswer string) Result {
	keywords := ExtractKeywords(q.ExpectedAnswer)
	studentLower := strings.ToLower(studentAnswer)

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(studentLower, kw) {
			matched++
		}
	}

	// Guard the zero-keyword case (e.g. empty expected answer).
	keywordScore := 0.0
	if len(keywords) > 0 {
		keywordScore = float64(matched) / float64(len(keywords))
	}

	wordCount := len(strings.Fields(studentAnswer))
	var lengthFactor float64
	switch {
	case wordCount < 30:
		lengthFactor = 0.6
	case wordCount < 50:
		lengthFactor = 0.8
	default:
		lengthFactor = 1.0
	}

	finalScore := keywordScore * lengthFactor

	feedback := fmt.Sprintf("Keyword coverage: %d/%d. ", matched, len(keywords))
	switch {
	case finalScore >= 0.8:
		feedback += "Strong answer with good coverage of key concepts."
	case finalScore >= 0.6:
		feedback += "Adequate answer but missing some key points."
	default:
		feedback += "Answer lacks sufficient depth and key concepts."
	}

	return Result{
		IsCorrect:    finalScore >= 0.6,
		PointsEarned: int(float64(q.Points) * finalScore),
		Feedback:     feedback,
	}
}
