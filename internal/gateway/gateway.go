// Package gateway implements the translation gateway: it builds the fixed
// prompt, calls the language model and extracts the JSON payload from its reply.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/kotoba/internal/logging"
	"github.com/aretw0/kotoba/internal/sanitize"
	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
)

// Gateway implements ports.Translator on top of a LanguageModel.
type Gateway struct {
	model       ports.LanguageModel
	provider    string
	prompt      *Prompt
	modelName   string
	temperature float32
	extract     Extractor
	metrics     *Metrics
	logger      *slog.Logger
}

var _ ports.Translator = (*Gateway)(nil)

// Option configures the Gateway.
type Option func(*Gateway)

// WithPrompt replaces the embedded prompt.
func WithPrompt(p *Prompt) Option {
	return func(g *Gateway) {
		g.prompt = p
	}
}

// WithModel overrides the model identifier from the prompt file.
func WithModel(name string) Option {
	return func(g *Gateway) {
		if name != "" {
			g.modelName = name
		}
	}
}

// WithTemperature overrides the sampling temperature. Negative values are ignored.
func WithTemperature(t float32) Option {
	return func(g *Gateway) {
		if t >= 0 {
			g.temperature = t
		}
	}
}

// WithExtractor selects the JSON extraction strategy.
func WithExtractor(e Extractor) Option {
	return func(g *Gateway) {
		if e != nil {
			g.extract = e
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithLogger configures a logger for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// WithProvider names the upstream provider in errors and logs.
func WithProvider(name string) Option {
	return func(g *Gateway) {
		g.provider = name
	}
}

// New creates a Gateway. It fails only if the embedded prompt is broken.
func New(model ports.LanguageModel, opts ...Option) (*Gateway, error) {
	g := &Gateway{
		model:    model,
		provider: "llm",
		extract:  ExtractJSON,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.prompt == nil {
		p, err := DefaultPrompt()
		if err != nil {
			return nil, err
		}
		g.prompt = p
	}
	if g.modelName == "" {
		g.modelName = g.prompt.Model
	}
	if g.temperature == 0 {
		g.temperature = g.prompt.Temperature
	}
	return g, nil
}

// Translate validates text, asks the model for a translation and returns the
// parsed result. Errors are *domain.ValidationError, *domain.UpstreamError or
// *domain.ParseError.
func (g *Gateway) Translate(ctx context.Context, text string) (*domain.TranslationResult, error) {
	clean, err := sanitize.Text(text)
	if err != nil {
		g.metrics.observe(OutcomeInvalid)
		return nil, err
	}

	user, err := g.prompt.Render(clean)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := g.model.Complete(ctx, ports.CompletionRequest{
		Model:       g.modelName,
		System:      g.prompt.System,
		User:        user,
		Temperature: g.temperature,
	})
	g.metrics.observeUpstream(time.Since(start))
	if err != nil {
		g.metrics.observe(OutcomeUpstream)
		g.logger.Error("Language model call failed", "provider", g.provider, "model", g.modelName, "err", err)
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) {
			return nil, upstream
		}
		return nil, &domain.UpstreamError{Provider: g.provider, Err: err}
	}

	result, err := g.parse(reply)
	if err != nil {
		g.metrics.observe(OutcomeParse)
		g.logger.Warn("Model reply could not be parsed", "err", err, "raw", reply)
		return nil, err
	}

	g.metrics.observe(OutcomeOK)
	g.logger.Debug("Translation completed", "words", len(result.Words), "duration", time.Since(start))
	return result, nil
}

// parse extracts and decodes the payload of a model reply.
func (g *Gateway) parse(reply string) (*domain.TranslationResult, error) {
	payload, err := g.extract(reply)
	if err != nil {
		return nil, &domain.ParseError{Raw: reply, Err: err}
	}

	var result domain.TranslationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, &domain.ParseError{Raw: reply, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := result.Validate(); err != nil {
		return nil, &domain.ParseError{Raw: reply, Err: err}
	}
	return &result, nil
}
