package grading

import (
	"context"
	"testing"

	"github.com/examgrid/examgrid-backend/internal/model"
)

func q(qt model.QuestionType, expected string, points int) model.Question {
	return model.Question{
		QuestionType:   qt,
		QuestionText:   "test question",
		ExpectedAnswer: expected,
		Points:         points,
	}
}

func assertResult(t *testing.T, got Result, wantCorrect bool, wantPoints int, wantFeedback string) {
	t.Helper()
	if got.IsCorrect != wantCorrect {
		t.Errorf("IsCorrect = %v, want %v", got.IsCorrect, wantCorrect)
	}
	if got.PointsEarned != wantPoints {
		t.Errorf("PointsEarned = %d, want %d", got.PointsEarned, wantPoints)
	}
	if wantFeedback != "" && got.Feedback != wantFeedback {
		t.Errorf("Feedback = %q, want %q", got.Feedback, wantFeedback)
	}
}

func TestExactMatchStrategy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		expected    string
		answer      string
		points      int
		wantCorrect bool
		wantPoints  int
		wantFeed    string
	}{
		{name: "case insensitive match", expected: "B", answer: "b", points: 5, wantCorrect: true, wantPoints: 5, wantFeed: "Correct!"},
		{name: "whitespace insensitive match", expected: "True", answer: "  true  ", points: 2, wantCorrect: true, wantPoints: 2, wantFeed: "Correct!"},
		{name: "inner whitespace collapsed", expected: "New  York", answer: "new york", points: 3, wantCorrect: true, wantPoints: 3, wantFeed: "Correct!"},
		{name: "wrong option", expected: "B", answer: "c", points: 5, wantCorrect: false, wantPoints: 0, wantFeed: "Expected: B"},
		{name: "empty answer", expected: "False", answer: "", points: 1, wantCorrect: false, wantPoints: 0, wantFeed: "Expected: False"},
		{name: "near miss gets nothing", expected: "Paris", answer: "pariss", points: 4, wantCorrect: false, wantPoints: 0, wantFeed: "Expected: Paris"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExactMatchStrategy{}.Grade(ctx, q(model.QuestionTypeMultipleChoice, tc.expected, tc.points), tc.answer)
			assertResult(t, got, tc.wantCorrect, tc.wantPoints, tc.wantFeed)
		})
	}
}

func TestShortAnswerStrategy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		expected    string
		answer      string
		points      int
		wantCorrect bool
		wantPoints  int
		wantFeed    string
	}{
		{
			name:     "identical gets full points",
			expected: "Mitochondria", answer: "mitochondria", points: 10,
			wantCorrect: true, wantPoints: 10, wantFeed: "Excellent answer!",
		},
		{
			name:     "typo lands in partial band",
			expected: "Mitochondria", answer: "Mitochondrion", points: 10,
			wantCorrect: true, wantPoints: 8,
			wantFeed: "Good answer with minor issues. Partial credit awarded.",
		},
		{
			name:     "half band truncates points",
			expected: "gravity", answer: "gravitation", points: 10,
			wantCorrect: false, wantPoints: 5,
			wantFeed: "Partially correct. Key concepts present but incomplete.",
		},
		{
			name:     "partial band floor on odd points",
			expected: "Mitochondria", answer: "Mitochondrion", points: 7,
			wantCorrect: true, wantPoints: 5, // floor(7 * 0.8)
			wantFeed: "Good answer with minor issues. Partial credit awarded.",
		},
		{
			name:     "unrelated answer gets nothing",
			expected: "Paris", answer: "London", points: 10,
			wantCorrect: false, wantPoints: 0,
			wantFeed: "Answer does not match expected response.",
		},
		{
			name:     "empty answer against empty expected is identical",
			expected: "", answer: "", points: 10,
			wantCorrect: true, wantPoints: 10, wantFeed: "Excellent answer!",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ShortAnswerStrategy{}.Grade(ctx, q(model.QuestionTypeShortAnswer, tc.expected, tc.points), tc.answer)
			assertResult(t, got, tc.wantCorrect, tc.wantPoints, tc.wantFeed)
		})
	}
}

const photosynthesisKey = "Sunlight and water and carbon dioxide for glucose and oxygen"

// 45 words, covers sunlight/water/glucose/oxygen but not carbon/dioxide.
const essayPartial = "Plants capture sunlight with their leaves and use that energy to split " +
	"water molecules. The energy stored during this process helps the plant build sugar known " +
	"as glucose, while oxygen is released into the air. This whole cycle keeps the plant " +
	"alive and sustains life."

// 51 words, covers all six keywords.
const essayStrong = "Photosynthesis begins when sunlight strikes the leaf and energizes the " +
	"chlorophyll inside each cell. The roots supply water while the stomata absorb carbon " +
	"dioxide from the surrounding air. Inside the chloroplasts these ingredients combine, " +
	"producing glucose for energy storage and releasing oxygen that animals breathe every " +
	"single day all around us."

func TestEssayStrategy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		expected    string
		answer      string
		points      int
		wantCorrect bool
		wantPoints  int
		wantFeed    string
	}{
		{
			name:     "partial coverage with mid length factor",
			expected: photosynthesisKey, answer: essayPartial, points: 20,
			// 4/6 keywords * 0.8 length factor = 0.533 -> floor(20 * 0.533) = 10
			wantCorrect: false, wantPoints: 10,
			wantFeed: "Keyword coverage: 4/6. Answer lacks sufficient depth and key concepts.",
		},
		{
			name:     "full coverage at full length",
			expected: photosynthesisKey, answer: essayStrong, points: 20,
			wantCorrect: true, wantPoints: 20,
			wantFeed: "Keyword coverage: 6/6. Strong answer with good coverage of key concepts.",
		},
		{
			name:     "full coverage but terse",
			expected: photosynthesisKey,
			answer:   "Sunlight and water and carbon dioxide produce glucose and oxygen inside plants.",
			points:   20,
			// 6/6 * 0.6 length factor = 0.6, adequate band
			wantCorrect: true, wantPoints: 12,
			wantFeed: "Keyword coverage: 6/6. Adequate answer but missing some key points.",
		},
		{
			name:     "empty expected answer yields zero keywords",
			expected: "", answer: essayStrong, points: 20,
			wantCorrect: false, wantPoints: 0,
			wantFeed: "Keyword coverage: 0/0. Answer lacks sufficient depth and key concepts.",
		},
		{
			name:     "empty student answer",
			expected: photosynthesisKey, answer: "", points: 20,
			wantCorrect: false, wantPoints: 0,
			wantFeed: "Keyword coverage: 0/6. Answer lacks sufficient depth and key concepts.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EssayStrategy{}.Grade(ctx, q(model.QuestionTypeEssay, tc.expected, tc.points), tc.answer)
			assertResult(t, got, tc.wantCorrect, tc.wantPoints, tc.wantFeed)
		})
	}
}

// Adding keyword-bearing text never lowers the matched count.
func TestEssayCoverageMonotonic(t *testing.T) {
	ctx := context.Background()
	question := q(model.QuestionTypeEssay, photosynthesisKey, 20)

	base := EssayStrategy{}.Grade(ctx, question, essayPartial)
	extended := EssayStrategy{}.Grade(ctx, question, essayPartial+" The plant also takes in carbon dioxide.")

	if extended.PointsEarned < base.PointsEarned {
		t.Fatalf("points dropped after adding keywords: %d -> %d", base.PointsEarned, extended.PointsEarned)
	}
}

func TestGraderRouting(t *testing.T) {
	ctx := context.Background()
	grader := NewLocalGrader()

	t.Run("routes multiple choice to exact match", func(t *testing.T) {
		got := grader.Grade(ctx, q(model.QuestionTypeMultipleChoice, "B", 5), "b")
		assertResult(t, got, true, 5, "Correct!")
	})

	t.Run("routes true false to exact match", func(t *testing.T) {
		got := grader.Grade(ctx, q(model.QuestionTypeTrueFalse, "true", 2), "TRUE")
		assertResult(t, got, true, 2, "Correct!")
	})

	t.Run("routes short answer to similarity", func(t *testing.T) {
		got := grader.Grade(ctx, q(model.QuestionTypeShortAnswer, "Mitochondria", 10), "Mitochondrion")
		assertResult(t, got, true, 8, "")
	})

	t.Run("routes essay to keyword coverage", func(t *testing.T) {
		got := grader.Grade(ctx, q(model.QuestionTypeEssay, photosynthesisKey, 20), essayStrong)
		assertResult(t, got, true, 20, "")
	})

	t.Run("unsupported type is a handled case", func(t *testing.T) {
		got := grader.Grade(ctx, q(model.QuestionType("matching"), "x", 5), "x")
		assertResult(t, got, false, 0, "Unsupported question type")
	})
}
