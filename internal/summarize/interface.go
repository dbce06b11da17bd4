package summarize

import "context"

// Summarizer is the common interface for summary engines.
type Summarizer interface {
	// Summarize generates a prose summary of the transcript text
	Summarize(ctx context.Context, transcript string) (string, error)
	// Name returns the engine name
	Name() string
}

// ProviderError is a failure reported by (or while reaching) the upstream
// generative-model provider, distinguishable from local failures by type.
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}
