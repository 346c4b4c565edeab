// Package llm wraps the OpenAI-compatible chat-completions call that turns a
// prompt into raw project text. Groq exposes this protocol, so the stock
// openai-go client pointed at the Groq base URL is the whole transport.
package llm

import "context"

// Request carries the parameters for a single generation call.
// Created once per invocation; never persisted.
type Request struct {
	Prompt      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Generator produces a text completion for a request. Implementations make
// exactly one synchronous outbound call; retries are the caller's concern
// (and dailyforge deliberately has none).
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
}
