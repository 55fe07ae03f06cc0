package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ErrNoClipboard is returned when neither a clipboard command nor a terminal
// is available.
var ErrNoClipboard = errors.New("no clipboard available")

// ClipboardCommand describes a program that reads the clipboard content from stdin.
type ClipboardCommand struct {
	Command string
	Args    []string
}

// DefaultClipboardCommands lists known clipboard programs per operating system.
func DefaultClipboardCommands(goos string) []ClipboardCommand {
	switch goos {
	case "darwin":
		return []ClipboardCommand{{Command: "pbcopy"}}
	case "windows":
		return []ClipboardCommand{{Command: "clip.exe"}}
	default:
		return []ClipboardCommand{
			{Command: "wl-copy"},
			{Command: "xclip", Args: []string{"-selection", "clipboard"}},
			{Command: "xsel", Args: []string{"--clipboard", "--input"}},
		}
	}
}

// Clipboard implements ports.Clipboard. It prefers a native clipboard command
// and falls back to OSC52 when writing to an interactive terminal.
type Clipboard struct {
	commands []ClipboardCommand
	lookPath func(string) (string, error)
	terminal io.Writer
	isTTY    func(io.Writer) bool
}

var _ ports.Clipboard = (*Clipboard)(nil)

// ClipboardOption configures a Clipboard.
type ClipboardOption func(*Clipboard)

// WithClipboardCommands replaces the candidate programs.
func WithClipboardCommands(cmds ...ClipboardCommand) ClipboardOption {
	return func(c *Clipboard) {
		c.commands = cmds
	}
}

// WithClipboardLookPath replaces exec.LookPath.
func WithClipboardLookPath(fn func(string) (string, error)) ClipboardOption {
	return func(c *Clipboard) {
		c.lookPath = fn
	}
}

// WithTerminal sets the writer used for OSC52 and how to tell if it is a TTY.
func WithTerminal(w io.Writer, isTTY func(io.Writer) bool) ClipboardOption {
	return func(c *Clipboard) {
		c.terminal = w
		c.isTTY = isTTY
	}
}

// NewClipboard creates a clipboard for the current operating system writing
// OSC52 sequences to stdout when needed.
func NewClipboard(opts ...ClipboardOption) *Clipboard {
	c := &Clipboard{
		commands: DefaultClipboardCommands(runtime.GOOS),
		lookPath: exec.LookPath,
		terminal: os.Stdout,
		isTTY:    IsTerminal,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WriteText copies text.
func (c *Clipboard) WriteText(ctx context.Context, text string) error {
	for _, cmd := range c.commands {
		path, err := c.lookPath(cmd.Command)
		if err != nil {
			continue
		}
		proc := exec.CommandContext(ctx, path, cmd.Args...)
		proc.Stdin = strings.NewReader(text)
		if out, err := proc.CombinedOutput(); err != nil {
			return fmt.Errorf("%s failed: %w: %s", cmd.Command, err, strings.TrimSpace(string(out)))
		}
		return nil
	}

	if c.terminal != nil && c.isTTY != nil && c.isTTY(c.terminal) {
		termenv.NewOutput(c.terminal).Copy(text)
		return nil
	}
	return ErrNoClipboard
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
