package ports

import (
	"context"

	"github.com/aretw0/kotoba/pkg/domain"
)

// Translator turns a Chinese sentence into a TranslationResult.
// Implementations: the in-process gateway and the HTTP client.
type Translator interface {
	Translate(ctx context.Context, text string) (*domain.TranslationResult, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, text string) (*domain.TranslationResult, error)

func (f TranslatorFunc) Translate(ctx context.Context, text string) (*domain.TranslationResult, error) {
	return f(ctx, text)
}

// CompletionRequest is a chat-style completion call to a language model.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
}

// LanguageModel is the external model provider. It returns free-form text
// that is expected to contain one JSON object.
type LanguageModel interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
