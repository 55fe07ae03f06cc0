package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/aretw0/kotoba/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RoundTrip(t *testing.T) {
	tr := &recordingTranslator{result: sunnyResult()}
	srv := httptest.NewServer(newTestHandler(t, tr))
	defer srv.Close()

	client := NewClient(srv.URL+"/", 5*time.Second)
	got, err := client.Translate(context.Background(), "今天天气很好")

	require.NoError(t, err)
	assert.Equal(t, sunnyResult(), got)
	assert.Equal(t, []string{"今天天气很好"}, tr.calls)
}

func TestClient_ServerErrors(t *testing.T) {
	tr := &recordingTranslator{err: &domain.UpstreamError{Provider: "openai", Err: errors.New("boom")}}
	srv := httptest.NewServer(newTestHandler(t, tr))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Translate(context.Background(), "你好")
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), GenericFailureMessage)
}

func TestClient_BadRequest(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t, &recordingTranslator{}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Translate(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestClient_InvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"japanese":""}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Translate(context.Background(), "你好")
	require.ErrorIs(t, err, domain.ErrParse)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Translate(context.Background(), "你好")
	require.ErrorIs(t, err, domain.ErrUpstream)
}

func TestClient_Contract(t *testing.T) {
	tests.TranslatorContractTest(t, func(t *testing.T, backend ports.Translator) ports.Translator {
		srv := httptest.NewServer(newTestHandler(t, backend))
		t.Cleanup(srv.Close)
		return NewClient(srv.URL, 5*time.Second)
	})
}
