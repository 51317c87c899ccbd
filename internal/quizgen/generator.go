// Package quizgen turns a free-text topic into a generated multiple-choice
// quiz by prompting a hosted generative model for schema-shaped JSON.
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmoura/simulado/internal/model"
)

// Config holds generation parameters. QuestionCount is deliberately
// configuration, never a constant at call sites.
type Config struct {
	// QuestionCount is the target number of questions when a call does
	// not specify one.
	QuestionCount int
	// Locale selects the language the model is asked to reply in.
	Locale string
	// Timeout bounds a single generation call. Zero means no bound.
	// A timeout surfaces as an upstream failure, not a distinct case.
	Timeout time.Duration
	// Temperature controls model randomness.
	Temperature float64
	// MaxTokens bounds the reply length. Zero means provider default.
	MaxTokens int
}

// maxQuestionCount caps a single generation request. Larger quizzes take
// the upstream model many seconds and the observed use never exceeds 50.
const maxQuestionCount = 50

// Generator produces quizzes through a Provider. Identical inputs may yield
// different quizzes; that is expected, not a bug.
type Generator struct {
	provider Provider
	cfg      Config
}

// New creates a Generator. A nil provider is allowed: every Generate call
// then fails with ErrMissingCredential, keeping the application interactive
// when no credential was configured.
func New(provider Provider, cfg Config) *Generator {
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = 5
	}
	return &Generator{provider: provider, cfg: cfg}
}

// Generate requests count questions about topic at the given difficulty.
// count <= 0 falls back to the configured default. The failed call is fully
// surfaced to the caller; resubmitting is always a fresh user action.
func (g *Generator) Generate(ctx context.Context, topic string, difficulty model.Difficulty, count int) (*model.QuizData, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if g.provider == nil {
		return nil, ErrMissingCredential
	}
	if count <= 0 {
		count = g.cfg.QuestionCount
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	resp, err := g.provider.Generate(ctx, Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(topic, difficulty, count, g.cfg.Locale),
		Schema:      QuizSchema,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		if errors.Is(err, ErrContentFiltered) || errors.Is(err, ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	sanitized := Sanitize(string(resp.Content))

	var quiz model.QuizData
	if err := json.Unmarshal([]byte(sanitized), &quiz); err != nil {
		ferr := &InvalidFormatError{Raw: sanitized, Err: err}
		slog.Error("generator reply unparseable", "model", resp.Model, "error", err, "raw", sanitized)
		return nil, ferr
	}

	if len(quiz.Questions) == 0 {
		return nil, ErrEmptyResult
	}

	if err := validateShape(QuizSchema, []byte(sanitized)); err != nil {
		slog.Error("generator reply failed schema validation", "model", resp.Model, "error", err, "raw", sanitized)
		return nil, &InvalidFormatError{Raw: sanitized, Err: err}
	}
	if err := checkInvariants(&quiz); err != nil {
		slog.Error("generator reply violates quiz invariants", "model", resp.Model, "error", err, "raw", sanitized)
		return nil, &InvalidFormatError{Raw: sanitized, Err: err}
	}

	return &quiz, nil
}

// checkInvariants enforces what the schema cannot express: unique question
// ids and a correct index that addresses an existing option.
func checkInvariants(quiz *model.QuizData) error {
	seen := make(map[int]bool, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if seen[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
		if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex >= len(q.Options) {
			return fmt.Errorf("question %d: correct index %d out of range", i, q.CorrectAnswerIndex)
		}
	}
	return nil
}
