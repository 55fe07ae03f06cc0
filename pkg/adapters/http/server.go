package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/kotoba/internal/sanitize"
	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GenericFailureMessage is the body of every 500 response. Upstream details
// stay in the server log.
const GenericFailureMessage = "translation failed"

const maxBodyBytes = 1 << 16

//go:embed openapi.yaml
var rawSpec []byte

//go:embed web
var webFS embed.FS

// Server serves the translation API and the browser chat page.
type Server struct {
	translator ports.Translator
	gatherer   prometheus.Gatherer
	version    string
	spec       *openapi3.T
	router     routers.Router
}

// Option configures a Server.
type Option func(*Server)

// WithGatherer exposes the collectors of g at /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = strings.TrimSpace(v)
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates the HTTP handler for translator.
func NewHandler(translator ports.Translator, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	server := &Server{
		translator: translator,
		version:    "dev",
		spec:       spec,
	}
	for _, opt := range opts {
		opt(server)
	}

	server.router, err = legacy.NewRouter(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	static, err := fs.Sub(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("failed to load web assets: %w", err)
	}

	r := chi.NewRouter()
	r.With(server.validateRequest).Post("/api/translate", server.Translate)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	r.Handle("/*", http.FileServer(http.FS(static)))

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Kotoba API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// validateRequest checks the request against the embedded OpenAPI document
// and answers 400 {error} when it does not conform.
func (s *Server) validateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		route, pathParams, err := s.router.FindRoute(r)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
		})
		if err != nil {
			verr := requestError(err)
			writeError(w, http.StatusBadRequest, verr.Error())
			slog.Warn("Translate: Invalid request body", "error", err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestError condenses a kin-openapi validation failure into a
// ValidationError naming the offending field.
func requestError(err error) *domain.ValidationError {
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		field := strings.Join(schemaErr.JSONPointer(), ".")
		if field == "" {
			field = "body"
		}
		return &domain.ValidationError{Field: field, Reason: schemaErr.Reason}
	}
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) && reqErr.Reason != "" {
		return &domain.ValidationError{Field: "body", Reason: reqErr.Reason}
	}
	return &domain.ValidationError{Field: "body", Reason: "must be a JSON object with a string text field"}
}

// Translate handles the POST /api/translate request. The body has already
// been validated against the OpenAPI document.
func (s *Server) Translate(w http.ResponseWriter, r *http.Request) {
	text, err := decodeText(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		slog.Warn("Translate: Input rejected", "error", err)
		return
	}

	result, err := s.translator.Translate(r.Context(), text)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			writeError(w, status, err.Error())
			slog.Warn("Translate: Input rejected", "error", err, "size", len(text))
			return
		}
		writeError(w, status, GenericFailureMessage)
		slog.Error("Translate failed", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// decodeText reads {"text": "..."} and applies the input policy.
func decodeText(body io.Reader) (string, error) {
	var req domain.TranslateRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return "", &domain.ValidationError{Field: "body", Reason: "must be a JSON object"}
	}
	return sanitize.Text(req.Text)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusInternalServerError
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec != nil && s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "kotoba-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
