package chat

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/kotoba/pkg/domain"
)

// recordingView captures every view call in order.
type recordingView struct {
	mu       sync.Mutex
	users    map[string]string
	bubbles  map[string]string
	turns    map[string]BotTurn
	order    []string
	scrolls  int
	failures map[string]string
}

func newRecordingView() *recordingView {
	return &recordingView{
		users:    make(map[string]string),
		bubbles:  make(map[string]string),
		turns:    make(map[string]BotTurn),
		failures: make(map[string]string),
	}
}

func (v *recordingView) AppendUser(id, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.users[id] = text
	v.order = append(v.order, "user:"+id)
}

func (v *recordingView) AppendPlaceholder(id, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bubbles[id] = text
	v.order = append(v.order, "bot:"+id)
}

func (v *recordingView) Resolve(id string, turn BotTurn) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bubbles[id] = turn.Japanese
	v.turns[id] = turn
}

func (v *recordingView) Fail(id, message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.bubbles[id] = message
	v.failures[id] = message
}

func (v *recordingView) ScrollToBottom() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrolls++
}

func (v *recordingView) bubble(id string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.bubbles[id]
}

func (v *recordingView) turn(id string) (BotTurn, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	t, ok := v.turns[id]
	return t, ok
}

func (v *recordingView) placeholderIDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	ids := make([]string, 0, len(v.bubbles))
	for id := range v.bubbles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// gatedTranslator holds each translation until its gate is released.
type gatedTranslator struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls []string
}

func newGatedTranslator() *gatedTranslator {
	return &gatedTranslator{gates: make(map[string]chan struct{})}
}

func (g *gatedTranslator) gate(text string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[text]
	if !ok {
		ch = make(chan struct{})
		g.gates[text] = ch
	}
	return ch
}

func (g *gatedTranslator) release(text string) { close(g.gate(text)) }

func (g *gatedTranslator) Translate(ctx context.Context, text string) (*domain.TranslationResult, error) {
	g.mu.Lock()
	g.calls = append(g.calls, text)
	g.mu.Unlock()

	select {
	case <-g.gate(text):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if text == "失败" {
		return nil, &domain.UpstreamError{Provider: "stub", Err: errors.New("quota")}
	}
	return &domain.TranslationResult{
		Japanese:       "訳:" + text,
		Words:          []domain.WordGloss{{JP: text, Romaji: "r", Meaning: "m", Grammar: "g"}},
		GrammarSummary: "summary:" + text,
	}, nil
}

func (g *gatedTranslator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// manualClock fires timers only when advanced.
type manualClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{at: c.now + d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*manualTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func (c *manualClock) scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

type fakeClipboard struct {
	mu      sync.Mutex
	err     error
	written []string
}

func (f *fakeClipboard) WriteText(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, text)
	return nil
}

type fakeSpeaker struct {
	available bool
	spoken    chan [2]string
}

func (f *fakeSpeaker) Available() bool { return f.available }

func (f *fakeSpeaker) Speak(ctx context.Context, text, lang string) error {
	f.spoken <- [2]string{text, lang}
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []string
}

func (f *fakeNotifier) Alert(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, message)
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.alerts...)
}
