package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/kotoba/internal/sanitize"
	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// PromptURI addresses the system prompt resource.
const PromptURI = "kotoba://prompt"

// Server exposes a translator as an MCP server.
type Server struct {
	translator ports.Translator
	prompt     string
	mcpServer  *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithPromptResource publishes the system prompt at PromptURI.
func WithPromptResource(system string) Option {
	return func(s *Server) {
		s.prompt = system
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(translator ports.Translator, version string, opts ...Option) *Server {
	s := &Server{
		translator: translator,
		mcpServer:  server.NewMCPServer("kotoba-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	translateTool := mcp.NewTool("translate",
		mcp.WithDescription("Translate a Chinese sentence into Japanese with a word-by-word grammatical breakdown."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The Chinese sentence to translate")),
		mcp.WithOutputSchema[domain.TranslationResult](),
	)
	s.mcpServer.AddTool(translateTool, mcp.NewStructuredToolHandler(s.handleTranslate))
}

func (s *Server) handleTranslate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.TranslationResult, error) {
	var req domain.TranslateRequest
	if err := mapstructure.Decode(args, &req); err != nil {
		return domain.TranslationResult{}, &domain.ValidationError{Field: "text", Reason: "must be a string"}
	}
	text, err := sanitize.Text(req.Text)
	if err != nil {
		return domain.TranslationResult{}, err
	}

	result, err := s.translator.Translate(ctx, text)
	if err != nil {
		slog.Warn("MCP Translate failed", "error", err)
		return domain.TranslationResult{}, fmt.Errorf("translate failed: %w", err)
	}
	return *result, nil
}

func (s *Server) registerResources() {
	if s.prompt == "" {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource(PromptURI, "Translation system prompt",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      PromptURI,
				MIMEType: "text/plain",
				Text:     s.prompt,
			},
		}, nil
	})
}
