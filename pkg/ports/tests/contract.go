// Package tests holds reusable test suites for ports implementations.
package tests

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
)

// FrontFactory builds the Translator under test in front of backend, which
// stands in for whatever ultimately produces translations.
type FrontFactory func(t *testing.T, backend ports.Translator) ports.Translator

type scriptedBackend struct {
	mu     sync.Mutex
	calls  []string
	result *domain.TranslationResult
	err    error
}

func (b *scriptedBackend) Translate(ctx context.Context, text string) (*domain.TranslationResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, text)
	return b.result, b.err
}

func (b *scriptedBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// TranslatorContractTest verifies that a Translator fronting another one
// forwards text, preserves results and keeps error kinds.
func TranslatorContractTest(t *testing.T, newFront FrontFactory) {
	t.Helper()
	ctx := context.Background()

	want := &domain.TranslationResult{
		Japanese: "私は学生です",
		Words: []domain.WordGloss{
			{JP: "私", Romaji: "watashi", Meaning: "我", Grammar: "第一人称代词"},
			{JP: "は", Romaji: "wa", Meaning: "（主题）", Grammar: "主题助词"},
			{JP: "学生", Romaji: "gakusei", Meaning: "学生", Grammar: "名词"},
			{JP: "です", Romaji: "desu", Meaning: "是", Grammar: "礼貌断定"},
		},
		GrammarSummary: "「AはBです」判断句。",
	}

	t.Run("Translate_Success", func(t *testing.T) {
		backend := &scriptedBackend{result: want}
		got, err := newFront(t, backend).Translate(ctx, "我是学生")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("result mismatch. got %+v, want %+v", got, want)
		}
		if calls := backend.Calls(); len(calls) != 1 || calls[0] != "我是学生" {
			t.Errorf("backend calls = %q, want exactly [我是学生]", calls)
		}
	})

	t.Run("Translate_BlankInput", func(t *testing.T) {
		backend := &scriptedBackend{result: want}
		_, err := newFront(t, backend).Translate(ctx, " \t\n")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
		if calls := backend.Calls(); len(calls) != 0 {
			t.Errorf("backend must not be called for blank input, got %q", calls)
		}
	})

	t.Run("Translate_ValidationError", func(t *testing.T) {
		backend := &scriptedBackend{err: &domain.ValidationError{Field: "text", Reason: "too long"}}
		_, err := newFront(t, backend).Translate(ctx, "你好")
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Translate_BackendFailure", func(t *testing.T) {
		for _, cause := range []error{
			&domain.UpstreamError{Provider: "openai", Err: errors.New("quota")},
			&domain.ParseError{Raw: "sorry", Err: errors.New("no json")},
		} {
			backend := &scriptedBackend{err: cause}
			got, err := newFront(t, backend).Translate(ctx, "你好")
			if err == nil {
				t.Errorf("expected error for %v, got result %+v", cause, got)
			}
			if errors.Is(err, domain.ErrValidation) {
				t.Errorf("backend failure %v must not look client-caused", cause)
			}
		}
	})
}
