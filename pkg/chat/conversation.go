package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/kotoba/internal/logging"
	"github.com/aretw0/kotoba/internal/sanitize"
	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// DefaultPoolSize bounds the number of translations running at once. Further
// submissions wait in line without blocking Submit.
const DefaultPoolSize = 8

// Conversation is the view-model of one chat session.
type Conversation struct {
	translator ports.Translator
	view       View
	speaker    ports.Speaker
	clipboard  ports.Clipboard
	notifier   ports.Notifier
	clock      Clock
	newID      func() string
	poolSize   int
	logger     *slog.Logger

	pool *ants.Pool
	wg   sync.WaitGroup

	mu        sync.Mutex
	exchanges []*domain.Exchange
	index     map[string]*domain.Exchange

	viewMu sync.Mutex
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithSpeaker sets the text-to-speech capability.
func WithSpeaker(s ports.Speaker) Option {
	return func(c *Conversation) {
		c.speaker = s
	}
}

// WithClipboard sets the clipboard capability.
func WithClipboard(cb ports.Clipboard) Option {
	return func(c *Conversation) {
		c.clipboard = cb
	}
}

// WithNotifier sets where blocking notices go.
func WithNotifier(n ports.Notifier) Option {
	return func(c *Conversation) {
		c.notifier = n
	}
}

// WithClock replaces the wall clock used for deferred label updates.
func WithClock(clock Clock) Option {
	return func(c *Conversation) {
		c.clock = clock
	}
}

// WithIDGenerator replaces the placeholder ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Conversation) {
		c.newID = fn
	}
}

// WithPoolSize bounds concurrent translations.
func WithPoolSize(n int) Option {
	return func(c *Conversation) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithLogger configures a logger for the Conversation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conversation) {
		c.logger = logger
	}
}

// NewConversation creates an empty conversation rendering into view.
func NewConversation(translator ports.Translator, view View, opts ...Option) (*Conversation, error) {
	c := &Conversation{
		translator: translator,
		view:       view,
		clock:      realClock{},
		newID:      func() string { return "msg-" + uuid.NewString() },
		poolSize:   DefaultPoolSize,
		logger:     logging.NewNop(),
		index:      make(map[string]*domain.Exchange),
	}
	for _, opt := range opts {
		opt(c)
	}

	pool, err := ants.NewPool(c.poolSize,
		ants.WithPanicHandler(func(p any) {
			c.logger.Error("Translation worker panic recovered", "panic", p)
		}),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	c.pool = pool
	return c, nil
}

// Submit starts a new exchange for text and never blocks on the translation.
// Empty or whitespace-only text is ignored and ok is false. Otherwise the user
// turn and a pending placeholder are shown immediately and the translation
// runs in the background; id addresses the placeholder.
func (c *Conversation) Submit(ctx context.Context, text string) (id string, ok bool, err error) {
	if sanitize.Blank(text) {
		return "", false, nil
	}
	text = strings.TrimSpace(text)

	ex := c.register(text)

	c.withView(func(v View) {
		v.AppendUser(ex.ID, text)
		v.AppendPlaceholder(ex.ID, PendingMessage)
	})
	c.logger.Debug("Exchange submitted", "id", ex.ID)

	c.dispatch(ctx, ex.ID, text)
	return ex.ID, true, nil
}

// dispatch queues the translation without blocking the caller. When every
// worker is busy the exchange stays pending until one frees up.
func (c *Conversation) dispatch(ctx context.Context, id, text string) {
	c.wg.Add(1)
	go func() {
		err := c.pool.Submit(func() {
			defer c.wg.Done()
			result, err := c.translator.Translate(ctx, text)
			c.complete(id, result, err)
		})
		if err != nil {
			c.logger.Error("Failed to dispatch translation", "id", id, "err", err)
			c.complete(id, nil, fmt.Errorf("failed to dispatch translation: %w", err))
			c.wg.Done()
		}
	}()
}

// register appends a pending exchange under a fresh, unused ID.
func (c *Conversation) register(text string) *domain.Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.newID()
	for {
		if _, taken := c.index[id]; !taken && id != "" {
			break
		}
		id = c.newID()
	}

	ex := domain.NewExchange(id, text)
	c.exchanges = append(c.exchanges, ex)
	c.index[id] = ex
	return ex
}

// complete applies the outcome of one translation to its own exchange.
func (c *Conversation) complete(id string, result *domain.TranslationResult, err error) {
	c.mu.Lock()
	ex, found := c.index[id]
	if !found {
		c.mu.Unlock()
		c.logger.Warn("Reply for unknown exchange dropped", "id", id)
		return
	}
	if err == nil {
		err = ex.Resolve(result)
	}
	if err != nil {
		if failErr := ex.Fail(err); failErr != nil {
			c.mu.Unlock()
			c.logger.Warn("Exchange already settled", "id", id, "err", failErr)
			return
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("Translation failed", "id", id, "err", err)
		c.withView(func(v View) {
			v.Fail(id, FailureMessage)
			v.ScrollToBottom()
		})
		return
	}

	turn := BotTurn{
		ID:        id,
		Japanese:  result.Japanese,
		Speak:     &SpeakButton{text: result.Japanese, conv: c},
		Copy:      newCopyButton(result.Japanese, c.clipboard, c.notifier, c.clock),
		Breakdown: NewBreakdown(result),
	}
	c.withView(func(v View) {
		v.Resolve(id, turn)
		v.ScrollToBottom()
	})
}

// Speak reads text aloud in Japanese. If speech is unavailable the user gets
// a blocking notice instead. It returns without waiting for synthesis.
func (c *Conversation) Speak(ctx context.Context, text string) {
	if c.speaker == nil || !c.speaker.Available() {
		c.alert(SpeechUnavailableMessage)
		return
	}
	go func() {
		if err := c.speaker.Speak(ctx, text, SpeechLang); err != nil {
			c.logger.Warn("Speech synthesis failed", "err", err)
		}
	}()
}

// Copy writes text to the clipboard through a one-off button.
func (c *Conversation) Copy(ctx context.Context, text string) error {
	return newCopyButton(text, c.clipboard, c.notifier, c.clock).Press(ctx)
}

// Exchange returns a snapshot of the exchange addressed by id.
func (c *Conversation) Exchange(id string) (domain.Exchange, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex, ok := c.index[id]
	if !ok {
		return domain.Exchange{}, false
	}
	return ex.Snapshot(), true
}

// Exchanges returns snapshots of all exchanges in submission order.
func (c *Conversation) Exchanges() []domain.Exchange {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Exchange, len(c.exchanges))
	for i, ex := range c.exchanges {
		out[i] = ex.Snapshot()
	}
	return out
}

// Pending reports how many exchanges are still awaiting a reply.
func (c *Conversation) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ex := range c.exchanges {
		if ex.Status == domain.ExchangePending {
			n++
		}
	}
	return n
}

// Wait blocks until every dispatched translation has completed.
func (c *Conversation) Wait() {
	c.wg.Wait()
}

// Close waits for in-flight translations and releases the worker pool.
func (c *Conversation) Close() {
	c.wg.Wait()
	c.pool.Release()
}

func (c *Conversation) withView(fn func(View)) {
	if c.view == nil {
		return
	}
	c.viewMu.Lock()
	defer c.viewMu.Unlock()
	fn(c.view)
}

func (c *Conversation) alert(message string) {
	if c.notifier != nil {
		c.notifier.Alert(message)
		return
	}
	c.logger.Warn("Notice dropped: no notifier configured", "message", message)
}
