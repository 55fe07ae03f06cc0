package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/kotoba/internal/sanitize"
	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTranslator(calls *[]string) ports.Translator {
	return ports.TranslatorFunc(func(ctx context.Context, text string) (*domain.TranslationResult, error) {
		*calls = append(*calls, text)
		return &domain.TranslationResult{
			Japanese:       "こんにちは",
			Words:          []domain.WordGloss{{JP: "こんにちは", Romaji: "konnichiwa", Meaning: "你好", Grammar: "寒暄语"}},
			GrammarSummary: "固定寒暄表达。",
		}, nil
	})
}

func TestHandleTranslate(t *testing.T) {
	var calls []string
	s := NewServer(echoTranslator(&calls), "v1.0.0\n")

	got, err := s.handleTranslate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"text": "你好"})
	require.NoError(t, err)
	assert.Equal(t, "こんにちは", got.Japanese)
	assert.Len(t, got.Words, 1)
	assert.Equal(t, []string{"你好"}, calls)
}

func TestHandleTranslate_TrimsInput(t *testing.T) {
	var calls []string
	s := NewServer(echoTranslator(&calls), "dev")

	_, err := s.handleTranslate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"text": "　你好\n"})
	require.NoError(t, err)
	assert.Equal(t, []string{"你好"}, calls)
}

func TestHandleTranslate_InvalidArgs(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"missing":    {},
		"blank":      {"text": "  "},
		"non-string": {"text": []int{1, 2}},
		"too long":   {"text": strings.Repeat("长", sanitize.MaxRunes+1)},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var calls []string
			s := NewServer(echoTranslator(&calls), "dev")

			_, err := s.handleTranslate(context.Background(), mcp.CallToolRequest{}, args)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, calls)
		})
	}
}

func TestHandleTranslate_UpstreamError(t *testing.T) {
	s := NewServer(ports.TranslatorFunc(func(ctx context.Context, text string) (*domain.TranslationResult, error) {
		return nil, &domain.UpstreamError{Provider: "openai"}
	}), "dev")

	_, err := s.handleTranslate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"text": "你好"})
	require.ErrorIs(t, err, domain.ErrUpstream)
}
