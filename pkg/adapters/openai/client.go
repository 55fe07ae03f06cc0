// Package openai adapts an OpenAI-compatible chat completion API to ports.LanguageModel.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
	openai "github.com/sashabaranov/go-openai"
)

// ProviderName identifies this adapter in errors and logs.
const ProviderName = "openai"

// ErrEmptyChoices is returned when the provider answers without any choice.
var ErrEmptyChoices = errors.New("empty choices")

// Config holds provider settings.
type Config struct {
	APIKey  string
	BaseURL string        // Optional, for compatible gateways
	Timeout time.Duration // Zero keeps the HTTP client default
}

// Client implements ports.LanguageModel.
type Client struct {
	api *openai.Client
}

var _ ports.LanguageModel = (*Client)(nil)

// New creates a Client from cfg.
func New(cfg Config) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		c.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{api: openai.NewClientWithConfig(c)}
}

// Complete sends a system + user message pair and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return "", &domain.UpstreamError{Provider: ProviderName, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.UpstreamError{Provider: ProviderName, Err: ErrEmptyChoices}
	}
	return resp.Choices[0].Message.Content, nil
}
