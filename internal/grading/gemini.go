package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/examgrid/examgrid-backend/internal/model"
)

const geminiCallTimeout = 30 * time.Second

// evaluator abstracts the LLM call so tests can inject a fake.
type evaluator interface {
	Evaluate(ctx context.Context, prompt string) (string, error)
}

// GeminiStrategy delegates grading to the Gemini API and falls back to the
// local grader on any failure. It never propagates an error past Grade: a
// missing or rejected credential flips a permanent fallback flag at
// construction, and per-call failures (timeouts, unusable payloads) fall back
// fresh each time.
type GeminiStrategy struct {
	eval     evaluator
	fallback *Grader
	log      zerolog.Logger
}

// NewGeminiStrategy builds the remote strategy. An empty API key or a client
// that cannot be constructed is logged once and permanently short-circuits to
// the fallback; startup never fails because of grading configuration.
func NewGeminiStrategy(ctx context.Context, apiKey, modelName string, fallback *Grader, log zerolog.Logger) *GeminiStrategy {
	s := &GeminiStrategy{
		fallback: fallback,
		log:      log.With().Str("component", "gemini_grader").Logger(),
	}

	if strings.TrimSpace(apiKey) == "" {
		s.log.Warn().Msg("GEMINI_API_KEY not configured, grading falls back to local strategies")
		return s
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		s.log.Warn().Err(err).Msg("Gemini client initialization failed, grading falls back to local strategies")
		return s
	}

	s.eval = &geminiEvaluator{client: client, model: modelName}
	return s
}

// Grade attempts the remote evaluation and delegates to the local grader on
// any failure, returning the local result unchanged.
func (s *GeminiStrategy) Grade(ctx context.Context, q model.Question, studentAnswer string) Result {
	if s.eval == nil {
		return s.fallback.Grade(ctx, q, studentAnswer)
	}

	callCtx, cancel := context.WithTimeout(ctx, geminiCallTimeout)
	defer cancel()

	raw, err := s.eval.Evaluate(callCtx, buildGradingPrompt(q, studentAnswer))
	if err != nil {
		s.log.Warn().Err(err).Str("question_id", q.ID.String()).Msg("Gemini grading failed, using local fallback")
		return s.fallback.Grade(ctx, q, studentAnswer)
	}

	result, err := parseEvaluatorResponse(raw, q.Points)
	if err != nil {
		s.log.Warn().Err(err).Str("question_id", q.ID.String()).Msg("Unparseable Gemini response, using local fallback")
		return s.fallback.Grade(ctx, q, studentAnswer)
	}

	return result
}

func buildGradingPrompt(q model.Question, studentAnswer string) string {
	return fmt.Sprintf(`You are an expert academic grader. Evaluate the student's answer fairly and objectively.

Question Type: %s
Question: %s
Expected Answer: %s
Maximum Points: %d

Student's Answer: %s

CRITICAL: Respond ONLY with valid JSON in this exact format (no markdown, no backticks):
{
  "is_correct": true or false,
  "points_earned": <number between 0 and %d>,
  "feedback": "<brief constructive feedback>"
}

Grading Guidelines:
- For multiple choice/true-false: Full points only for exact matches
- For short answers: Full points if key concept is present, partial for close answers
- For essays: Evaluate depth, accuracy, and coverage of key concepts
- Be fair but rigorous. Award partial credit where appropriate.
`, q.QuestionType, q.QuestionText, q.ExpectedAnswer, q.Points, studentAnswer, q.Points)
}

// stripCodeFences removes markdown fencing some models wrap around JSON output.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseEvaluatorResponse parses and sanitizes the structured payload: clamps
// points into [0, maxPoints], coerces field types, and substitutes defaults
// for missing fields. A payload that is not a JSON object at all is an error
// so the caller can fall back.
func parseEvaluatorResponse(raw string, maxPoints int) (Result, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return Result{}, errors.New("empty evaluator response")
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Result{}, fmt.Errorf("decode evaluator response: %w", err)
	}

	result := Result{}

	if raw, ok := payload["is_correct"]; ok {
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			result.IsCorrect = b
		}
	}

	if raw, ok := payload["points_earned"]; ok {
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			result.PointsEarned = int(n)
		}
	}
	if result.PointsEarned < 0 {
		result.PointsEarned = 0
	}
	if result.PointsEarned > maxPoints {
		result.PointsEarned = maxPoints
	}

	if raw, ok := payload["feedback"]; ok {
		var fb string
		if err := json.Unmarshal(raw, &fb); err == nil {
			result.Feedback = fb
		}
	}

	return result, nil
}

// geminiEvaluator is the production evaluator backed by generative-ai-go.
type geminiEvaluator struct {
	client *genai.Client
	model  string
}

func (g *geminiEvaluator) Evaluate(ctx context.Context, prompt string) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	text := firstText(resp)
	if text == "" {
		return "", errors.New("empty Gemini response")
	}
	return text, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
