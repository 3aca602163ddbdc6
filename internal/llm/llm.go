package llm

import "context"

// Completer is the minimal text-completion capability the extraction core
// depends on. Implementations own their transport, auth and limits.
type Completer interface {
	// Complete sends one prompt and returns the raw model text.
	Complete(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider in logs and audit rows.
	Name() string
}

// Options carries the generation parameters shared by both providers.
type Options struct {
	Temperature     float64
	MaxOutputTokens int
}
