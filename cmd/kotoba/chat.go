package main

import (
	"os"

	"github.com/aretw0/kotoba"
	"github.com/aretw0/kotoba/internal/cli"
	"github.com/aretw0/kotoba/pkg/adapters/platform"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive translation chat in the terminal",
	Long: `Type Chinese sentences and get Japanese translations with a word-by-word
breakdown. Use /speak and /copy to read a translation aloud or copy it.

With --server the chat talks to a running 'kotoba serve' instead of calling
the model provider directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		translator, err := newTranslator(cfg, logger, nil, false)
		if err != nil {
			return err
		}

		rich := platform.IsTerminal(os.Stdout)
		width := 0
		if rich {
			if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				width = w
			}
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Stop()

		return cli.RunChat(sigCtx, cli.ChatOptions{
			In:         os.Stdin,
			Out:        os.Stdout,
			Translator: translator,
			Speaker:    platform.NewSpeaker(),
			Clipboard:  platform.NewClipboard(),
			PoolSize:   cfg.PoolSize,
			Logger:     logger,
			Rich:       rich,
			Width:      width,
			Version:    kotoba.Version,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Int("pool-size", 8, "Maximum concurrent translations (env KOTOBA_POOL_SIZE)")
}
