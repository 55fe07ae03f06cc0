package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/kotoba/internal/presentation/tui"
	"github.com/aretw0/kotoba/pkg/chat"
	"github.com/aretw0/kotoba/pkg/ports"
)

// Output formats for RunTranslate.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// TranslateOptions configures a one-shot translation.
type TranslateOptions struct {
	Out        io.Writer
	Translator ports.Translator
	Format     string
	Render     tui.Renderer
}

// RunTranslate translates text once and prints the result.
func RunTranslate(ctx context.Context, text string, opts TranslateOptions) error {
	result, err := opts.Translator.Translate(ctx, text)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}

	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(opts.Out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatText, "":
		render := opts.Render
		if render == nil {
			render = tui.PlainRenderer
		}
		fmt.Fprintln(opts.Out, result.Japanese)
		md := tui.BreakdownMarkdown(chat.NewBreakdown(result))
		out, err := render(md)
		if err != nil {
			out = md
		}
		_, err = io.WriteString(opts.Out, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want %q or %q)", opts.Format, FormatText, FormatJSON)
	}
}
