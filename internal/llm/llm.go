// Package llm holds the answer-generation backends. Two interchangeable
// implementations exist: a remote hosted-inference API (OpenRouter) and a
// local inference server. Callers depend only on Generator.
package llm

import (
	"context"
	"errors"
)

// Generator produces an answer for a fully built prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrGenerationUnavailable covers timeouts, non-success responses and
// malformed response bodies from either backend. Never retried internally;
// the caller may re-issue the question.
var ErrGenerationUnavailable = errors.New("generation backend unavailable")
