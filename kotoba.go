package kotoba

import (
	_ "embed"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/kotoba/internal/gateway"
	"github.com/aretw0/kotoba/internal/logging"
	httpAdapter "github.com/aretw0/kotoba/pkg/adapters/http"
	"github.com/aretw0/kotoba/pkg/adapters/openai"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the release of this build.
//
//go:embed VERSION
var Version string

// ErrNoProvider is returned when neither an API key nor a remote server is set.
var ErrNoProvider = errors.New("kotoba: an API key or a server URL is required")

// Options selects and configures the translation backend.
type Options struct {
	// Server, when set, sends every request to a running kotoba server and the
	// provider settings below are ignored.
	Server string

	APIKey  string
	BaseURL string
	Model   string
	// Temperature zero keeps the prompt default.
	Temperature float32
	// Extraction is "span" (default) or "balanced".
	Extraction string
	Timeout    time.Duration

	// Registerer receives the gateway metrics. Nil disables them.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

// NewTranslator builds the Translator described by opts.
func NewTranslator(opts Options) (ports.Translator, error) {
	if opts.Server != "" {
		return httpAdapter.NewClient(opts.Server, opts.Timeout), nil
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrNoProvider
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	model := openai.New(openai.Config{
		APIKey:  opts.APIKey,
		BaseURL: opts.BaseURL,
		Timeout: opts.Timeout,
	})

	gwOpts := []gateway.Option{
		gateway.WithModel(opts.Model),
		gateway.WithTemperature(opts.Temperature),
		gateway.WithExtractor(gateway.ExtractorFor(opts.Extraction)),
		gateway.WithProvider(openai.ProviderName),
		gateway.WithLogger(logger),
	}
	if opts.Registerer != nil {
		gwOpts = append(gwOpts, gateway.WithMetrics(gateway.NewMetrics(opts.Registerer)))
	}
	gw, err := gateway.New(model, gwOpts...)
	if err != nil {
		return nil, err
	}
	return gw, nil
}

// SystemPrompt returns the instructions sent to the model with every request.
func SystemPrompt() (string, error) {
	p, err := gateway.DefaultPrompt()
	if err != nil {
		return "", err
	}
	return p.System, nil
}
