package ports

import "context"

// Speaker synthesizes speech for a language tag such as "ja-JP".
// Available reports whether the platform offers speech at all.
type Speaker interface {
	Available() bool
	Speak(ctx context.Context, text, lang string) error
}

// Clipboard writes text to the platform clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notifier surfaces a blocking notice to the user.
type Notifier interface {
	Alert(message string)
}
