package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
)

// ClientProvider names the remote kotoba server in upstream errors.
const ClientProvider = "kotoba-http"

// Client implements ports.Translator against a running kotoba server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ ports.Translator = (*Client)(nil)

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Translate posts text to /api/translate.
func (c *Client) Translate(ctx context.Context, text string) (*domain.TranslationResult, error) {
	payload, err := json.Marshal(domain.TranslateRequest{Text: text})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/translate", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: ClientProvider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Provider: ClientProvider, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &domain.ValidationError{Field: "text", Reason: errorMessage(body)}
	case resp.StatusCode != http.StatusOK:
		return nil, &domain.UpstreamError{
			Provider: ClientProvider,
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, errorMessage(body)),
		}
	}

	var result domain.TranslationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &domain.ParseError{Raw: string(body), Err: err}
	}
	if err := result.Validate(); err != nil {
		return nil, &domain.ParseError{Raw: string(body), Err: err}
	}
	return &result, nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
