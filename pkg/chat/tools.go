package chat

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/kotoba/pkg/domain"
	"github.com/aretw0/kotoba/pkg/ports"
)

const (
	// SpeechLang is the language tag used for text-to-speech.
	SpeechLang = "ja-JP"
	// CopyResetDelay is how long the copied confirmation stays visible.
	CopyResetDelay = 1500 * time.Millisecond
)

// SpeakButton reads a fixed translation aloud.
type SpeakButton struct {
	text string
	conv *Conversation
}

// Label returns the button caption.
func (b *SpeakButton) Label() string { return SpeakLabel }

// Text returns the text bound to the button.
func (b *SpeakButton) Text() string { return b.text }

// Press speaks the bound text. It never blocks on synthesis.
func (b *SpeakButton) Press(ctx context.Context) {
	b.conv.Speak(ctx, b.text)
}

// CopyButton copies a fixed translation to the clipboard and briefly shows a
// confirmation label.
type CopyButton struct {
	text      string
	clipboard ports.Clipboard
	notifier  ports.Notifier
	clock     Clock
	onChange  func(label string)

	mu    sync.Mutex
	label string
	timer Timer
	// presses counts successful presses; a reversion only applies to the
	// press that scheduled it.
	presses uint64
}

func newCopyButton(text string, clipboard ports.Clipboard, notifier ports.Notifier, clock Clock) *CopyButton {
	return &CopyButton{
		text:      text,
		clipboard: clipboard,
		notifier:  notifier,
		clock:     clock,
		label:     CopyLabel,
	}
}

// Label returns the current caption.
func (b *CopyButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

// Text returns the text bound to the button.
func (b *CopyButton) Text() string { return b.text }

// OnChange registers a callback invoked with the new caption whenever it changes.
func (b *CopyButton) OnChange(fn func(label string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Press writes the bound text to the clipboard.
// On success the caption becomes CopiedLabel and reverts to CopyLabel after
// CopyResetDelay; a later success restarts the delay. On failure the user is
// alerted and no reversion is scheduled.
func (b *CopyButton) Press(ctx context.Context) error {
	if b.clipboard == nil {
		b.alert()
		return &domain.ClientDisplayError{Capability: "clipboard"}
	}
	if err := b.clipboard.WriteText(ctx, b.text); err != nil {
		b.alert()
		return &domain.ClientDisplayError{Capability: "clipboard", Err: err}
	}

	b.mu.Lock()
	b.presses++
	press := b.presses
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = b.clock.AfterFunc(CopyResetDelay, func() {
		b.revert(press)
	})
	b.label = CopiedLabel
	fn := b.onChange
	b.mu.Unlock()

	if fn != nil {
		fn(CopiedLabel)
	}
	return nil
}

// revert restores CopyLabel unless a later press superseded press.
func (b *CopyButton) revert(press uint64) {
	b.mu.Lock()
	if press != b.presses {
		b.mu.Unlock()
		return
	}
	b.label = CopyLabel
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn(CopyLabel)
	}
}

func (b *CopyButton) alert() {
	if b.notifier != nil {
		b.notifier.Alert(CopyFailedMessage)
	}
}
