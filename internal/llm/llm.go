package llm

import "context"

// CompletionRequest is one synchronous chat completion call. ImageURL,
// when set, is attached to the user turn as an image part.
type CompletionRequest struct {
	Model     string
	System    string
	Text      string
	ImageURL  string
	MaxTokens int64
}

// Client sends a completion request to a hosted model endpoint and
// returns the raw model text. Implementations must be safe for
// concurrent use.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
