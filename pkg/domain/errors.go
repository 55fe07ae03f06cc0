package domain

import (
	"errors"
	"fmt"
)

// Sentinel kinds for errors.Is checks across adapters.
var (
	ErrValidation    = errors.New("validation error")
	ErrUpstream      = errors.New("upstream error")
	ErrParse         = errors.New("parse error")
	ErrClientDisplay = errors.New("client display error")
)

// ValidationError reports a malformed or empty request. It is client-caused.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UpstreamError reports a failed call to the language model provider
// (network, auth, quota, non-2xx).
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// ParseError reports a model reply that did not contain an extractable,
// valid JSON payload. Raw keeps the reply for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable model reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ClientDisplayError reports a local capability (speech, clipboard) that is
// unavailable. It is shown to the user and never sent to the server.
type ClientDisplayError struct {
	Capability string
	Err        error
}

func (e *ClientDisplayError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s unavailable", e.Capability)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Capability, e.Err)
}

func (e *ClientDisplayError) Unwrap() error { return e.Err }

func (e *ClientDisplayError) Is(target error) bool { return target == ErrClientDisplay }
