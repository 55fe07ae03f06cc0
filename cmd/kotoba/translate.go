package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/aretw0/kotoba/internal/cli"
	"github.com/aretw0/kotoba/internal/presentation/tui"
	"github.com/aretw0/kotoba/pkg/adapters/platform"
	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate one sentence and exit",
	Long:  `Translates the arguments, or stdin when no arguments are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("nothing to translate")
		}

		translator, err := newTranslator(cfg, logger, nil, false)
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		render := tui.PlainRenderer
		if platform.IsTerminal(os.Stdout) {
			render = tui.NewRenderer(0)
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Stop()

		return cli.RunTranslate(sigCtx, text, cli.TranslateOptions{
			Out:        cmd.OutOrStdout(),
			Translator: translator,
			Format:     format,
			Render:     render,
		})
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: 'text' or 'json'")
}
