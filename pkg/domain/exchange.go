package domain

import (
	"errors"
	"fmt"
	"time"
)

// ExchangeStatus is the lifecycle phase of a single user turn.
type ExchangeStatus string

const (
	ExchangePending  ExchangeStatus = "pending"  // Placeholder shown, reply outstanding
	ExchangeResolved ExchangeStatus = "resolved" // Translation and breakdown shown
	ExchangeFailed   ExchangeStatus = "failed"   // Failure message shown
)

// ErrInvalidTransition is returned when an exchange leaves a terminal status.
var ErrInvalidTransition = errors.New("invalid exchange transition")

// Exchange is one user turn: the source text and, once resolved, its translation.
// Exchanges are appended to the conversation and never removed.
type Exchange struct {
	// ID addresses the bot placeholder of this turn. It is assigned at creation
	// and never reused.
	ID        string
	Source    string
	Status    ExchangeStatus
	Result    *TranslationResult
	Err       error
	CreatedAt time.Time
}

// NewExchange creates a pending exchange.
func NewExchange(id, source string) *Exchange {
	return &Exchange{
		ID:        id,
		Source:    source,
		Status:    ExchangePending,
		CreatedAt: time.Now(),
	}
}

// Resolve moves a pending exchange to resolved.
func (e *Exchange) Resolve(result *TranslationResult) error {
	if e.Status != ExchangePending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, ExchangeResolved)
	}
	if result == nil || result.Japanese == "" {
		return fmt.Errorf("%w: resolved exchange requires a translation", ErrInvalidTransition)
	}
	e.Status = ExchangeResolved
	e.Result = result
	return nil
}

// Fail moves a pending exchange to failed. Failed is terminal.
func (e *Exchange) Fail(cause error) error {
	if e.Status != ExchangePending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, e.Status, ExchangeFailed)
	}
	e.Status = ExchangeFailed
	e.Err = cause
	return nil
}

// Snapshot returns a copy that is safe to hand to readers.
func (e *Exchange) Snapshot() Exchange {
	return *e
}
