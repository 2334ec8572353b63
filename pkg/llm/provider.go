package llm

import (
	"context"
	"time"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// RetryPolicy bounds transient-failure handling on generation calls: a fixed
// number of attempts with fixed per-failure delays. No exponential back-off,
// no jitter. Sleep is injectable so tests run without real waiting.
type RetryPolicy struct {
	MaxAttempts    int
	BadStatusDelay time.Duration // pause after a non-200 response
	TimeoutDelay   time.Duration // longer pause after a timeout
	Sleep          func(time.Duration)
}

// DefaultRetryPolicy: 3 attempts total, 5s after a bad response, 10s after a
// timeout, then give up.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		BadStatusDelay: 5 * time.Second,
		TimeoutDelay:   10 * time.Second,
		Sleep:          time.Sleep,
	}
}
