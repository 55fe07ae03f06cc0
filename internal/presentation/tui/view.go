package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aretw0/kotoba/pkg/chat"
	"github.com/muesli/termenv"
)

// ChatView prints a conversation to a terminal. Each exchange gets a number
// the user can refer to when pressing its tools.
type ChatView struct {
	w      io.Writer
	out    *termenv.Output
	render Renderer

	writeMu sync.Mutex

	mu     sync.Mutex
	order  []string
	number map[string]int
	turns  map[string]chat.BotTurn
}

var _ chat.View = (*ChatView)(nil)

// NewChatView creates a view writing to w. A nil render prints markdown as is.
func NewChatView(w io.Writer, render Renderer) *ChatView {
	if render == nil {
		render = PlainRenderer
	}
	return &ChatView{
		w:      w,
		out:    termenv.NewOutput(w),
		render: render,
		number: make(map[string]int),
		turns:  make(map[string]chat.BotTurn),
	}
}

func (v *ChatView) AppendUser(id, text string) {
	v.mu.Lock()
	v.order = append(v.order, id)
	n := len(v.order)
	v.number[id] = n
	v.mu.Unlock()

	v.printf("%s %s\n", v.out.String(fmt.Sprintf("[%d] 你:", n)).Bold(), text)
}

func (v *ChatView) AppendPlaceholder(id, text string) {
	v.printf("%s %s\n", v.tag(id), v.out.String(text).Faint())
}

func (v *ChatView) Resolve(id string, turn chat.BotTurn) {
	v.mu.Lock()
	v.turns[id] = turn
	n := v.number[id]
	v.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", v.tag(id), v.out.String(turn.Japanese).Foreground(v.out.Color("#60a5fa")).Bold())
	fmt.Fprintf(&b, "    %s /speak %d   %s /copy %d\n", turn.Speak.Label(), n, turn.Copy.Label(), n)

	rendered, err := v.render(BreakdownMarkdown(turn.Breakdown))
	if err != nil {
		rendered = BreakdownMarkdown(turn.Breakdown)
	}
	b.WriteString(rendered)
	if !strings.HasSuffix(rendered, "\n") {
		b.WriteString("\n")
	}
	v.printf("%s", b.String())

	turn.Copy.OnChange(func(label string) {
		if label == chat.CopiedLabel {
			v.printf("%s %s\n", v.tag(id), label)
		}
	})
}

func (v *ChatView) Fail(id, message string) {
	v.printf("%s %s\n", v.tag(id), v.out.String(message).Foreground(v.out.Color("#f87171")))
}

// ScrollToBottom is a no-op: terminal output always ends at the newest line.
func (v *ChatView) ScrollToBottom() {}

// Turn returns the resolved turn numbered n.
func (v *ChatView) Turn(n int) (chat.BotTurn, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 || n > len(v.order) {
		return chat.BotTurn{}, false
	}
	turn, ok := v.turns[v.order[n-1]]
	return turn, ok
}

// Latest returns the most recent resolved turn.
func (v *ChatView) Latest() (chat.BotTurn, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := len(v.order) - 1; i >= 0; i-- {
		if turn, ok := v.turns[v.order[i]]; ok {
			return turn, true
		}
	}
	return chat.BotTurn{}, false
}

func (v *ChatView) printf(format string, args ...any) {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	fmt.Fprintf(v.w, format, args...)
}

func (v *ChatView) tag(id string) termenv.Style {
	v.mu.Lock()
	n := v.number[id]
	v.mu.Unlock()
	return v.out.String(fmt.Sprintf("[%d] 译:", n)).Bold()
}

// BreakdownMarkdown formats an analysis block.
func BreakdownMarkdown(bd chat.Breakdown) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#### %s\n\n", bd.Title)
	for _, w := range bd.Words {
		fmt.Fprintf(&b, "- **%s**（%s） · 意思：%s  \n  语法：%s\n", w.JP, w.Romaji, w.Meaning, w.Grammar)
	}
	if bd.GrammarSummary != "" {
		fmt.Fprintf(&b, "\n%s\n", bd.GrammarSummary)
	}
	return b.String()
}
