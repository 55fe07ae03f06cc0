package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the kotoba banner and a short usage hint to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{"  _         _        _", "#f87171"},
		{" | | _____ | |_ ___ | |__   __ _", "#fb923c"},
		{" | |/ / _ \\| __/ _ \\| '_ \\ / _` |", "#facc15"},
		{" |   < (_) | || (_) | |_) | (_| |", "#4ade80"},
		{" |_|\\_\\___/ \\__\\___/|_.__/ \\__,_|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  中文 → 日本語 "+version).Faint())
	fmt.Fprintln(w)
}
