package grading

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/examgrid/examgrid-backend/internal/model"
)

type fakeEvaluator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestGemini(eval evaluator) *GeminiStrategy {
	return &GeminiStrategy{
		eval:     eval,
		fallback: NewLocalGrader(),
		log:      zerolog.Nop(),
	}
}

func TestGeminiStrategyParsesPayload(t *testing.T) {
	ctx := context.Background()
	question := q(model.QuestionTypeEssay, photosynthesisKey, 20)

	tests := []struct {
		name        string
		response    string
		wantCorrect bool
		wantPoints  int
		wantFeed    string
	}{
		{
			name:        "plain json",
			response:    `{"is_correct": true, "points_earned": 17, "feedback": "Well argued."}`,
			wantCorrect: true, wantPoints: 17, wantFeed: "Well argued.",
		},
		{
			name:        "markdown fenced json",
			response:    "```json\n{\"is_correct\": true, \"points_earned\": 12, \"feedback\": \"Good.\"}\n```",
			wantCorrect: true, wantPoints: 12, wantFeed: "Good.",
		},
		{
			name:        "points clamped to maximum",
			response:    `{"is_correct": true, "points_earned": 999, "feedback": "ok"}`,
			wantCorrect: true, wantPoints: 20, wantFeed: "ok",
		},
		{
			name:        "negative points clamped to zero",
			response:    `{"is_correct": false, "points_earned": -3, "feedback": "ok"}`,
			wantCorrect: false, wantPoints: 0, wantFeed: "ok",
		},
		{
			name:        "fractional points truncated",
			response:    `{"is_correct": true, "points_earned": 14.9, "feedback": "ok"}`,
			wantCorrect: true, wantPoints: 14, wantFeed: "ok",
		},
		{
			name:        "missing fields get defaults",
			response:    `{}`,
			wantCorrect: false, wantPoints: 0, wantFeed: "",
		},
		{
			name:        "wrong field types fall back to defaults",
			response:    `{"is_correct": "yes", "points_earned": "many", "feedback": 7}`,
			wantCorrect: false, wantPoints: 0, wantFeed: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestGemini(&fakeEvaluator{response: tc.response})
			got := s.Grade(ctx, question, essayStrong)
			assertResult(t, got, tc.wantCorrect, tc.wantPoints, tc.wantFeed)
		})
	}
}

func TestGeminiStrategyFallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	question := q(model.QuestionTypeShortAnswer, "Mitochondria", 10)
	want := NewLocalGrader().Grade(ctx, question, "Mitochondrion")

	tests := []struct {
		name string
		eval evaluator
	}{
		{name: "evaluator error", eval: &fakeEvaluator{err: errors.New("deadline exceeded")}},
		{name: "unparsable payload", eval: &fakeEvaluator{response: "I would grade this a B+."}},
		{name: "empty payload", eval: &fakeEvaluator{response: "```json\n```"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestGemini(tc.eval)
			got := s.Grade(ctx, question, "Mitochondrion")
			if got != want {
				t.Fatalf("fallback result = %+v, want local result %+v", got, want)
			}
		})
	}
}

func TestGeminiStrategyPermanentFallback(t *testing.T) {
	ctx := context.Background()

	// No API key: construction succeeds but every call short-circuits locally.
	s := NewGeminiStrategy(ctx, "", "gemini-1.5-flash", NewLocalGrader(), zerolog.Nop())

	question := q(model.QuestionTypeMultipleChoice, "B", 5)
	got := s.Grade(ctx, question, "b")
	assertResult(t, got, true, 5, "Correct!")
}

func TestGeminiPromptContainsQuestionContext(t *testing.T) {
	fake := &fakeEvaluator{response: `{"is_correct": true, "points_earned": 5, "feedback": "ok"}`}
	s := newTestGemini(fake)

	question := model.Question{
		QuestionType:   model.QuestionTypeShortAnswer,
		QuestionText:   "What organelle produces ATP?",
		ExpectedAnswer: "Mitochondria",
		Points:         5,
	}
	s.Grade(context.Background(), question, "the mitochondria")

	if len(fake.prompts) != 1 {
		t.Fatalf("expected one evaluator call, got %d", len(fake.prompts))
	}
	prompt := fake.prompts[0]
	for _, want := range []string{
		"short_answer",
		"What organelle produces ATP?",
		"Mitochondria",
		"Maximum Points: 5",
		"the mitochondria",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
