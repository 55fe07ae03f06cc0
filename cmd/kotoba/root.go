package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/kotoba"
	"github.com/aretw0/kotoba/internal/cli"
	"github.com/aretw0/kotoba/internal/config"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kotoba",
	Short: "Kotoba translates Chinese sentences into Japanese",
	Long: `Kotoba translates Chinese sentences into Japanese with a word-by-word
grammatical breakdown, using an OpenAI-compatible chat model.

Settings come from kotoba.yaml, the environment (OPENAI_API_KEY, PORT,
KOTOBA_*) and flags, in increasing priority.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./kotoba.yaml or ~/.config/kotoba/kotoba.yaml)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("model", "", "Model identifier (default from the prompt)")
	flags.String("base-url", "", "Base URL of an OpenAI-compatible API")
	flags.Float32("temperature", 0, "Sampling temperature (0 keeps the prompt default)")
	flags.String("extraction", config.ExtractionSpan, "JSON extraction: 'span' or 'balanced'")
	flags.Duration("timeout", 0, "Request timeout (default 60s)")
	flags.String("server", "", "Translate through a running kotoba server at this URL")
}

// loadConfig resolves configuration for cmd and installs the default logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file, Flags: cmd.Flags()})
	if err != nil {
		return nil, nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	logger := cli.NewLogger(cfg.LogLevel, debug)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newTranslator builds the translator for cfg. When local is true the
// provider is always called directly.
func newTranslator(cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, local bool) (ports.Translator, error) {
	opts := kotoba.Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Extraction:  cfg.Extraction,
		Timeout:     cfg.Timeout,
		Registerer:  reg,
		Logger:      logger,
	}
	if !local {
		opts.Server = cfg.Server
	}
	if opts.Server == "" {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
	}
	return kotoba.NewTranslator(opts)
}
