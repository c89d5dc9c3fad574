// Package responder provides the language responder used by the research
// workflow to turn raw search output and instructions into prose.
package responder

import (
	"context"
	"errors"
)

var (
	// ErrResponder wraps every failure of a completion call.
	ErrResponder = errors.New("responder failed")
	// ErrUnknownBackend indicates a configured backend that is not supported.
	ErrUnknownBackend = errors.New("unknown responder backend")
)

// Responder completes a prompt into free text.
type Responder interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Responder interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
