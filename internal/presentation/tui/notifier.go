package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/muesli/termenv"
)

// Notifier prints alerts as highlighted lines.
type Notifier struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier writing to w.
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w, out: termenv.NewOutput(w)}
}

// Alert writes message on its own line.
func (n *Notifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "\n%s\n", n.out.String("⚠ "+message).Foreground(n.out.Color("#f87171")).Bold())
}
