package driven

import "context"

// ChatOptions configures a single generation call.
type ChatOptions struct {
	// Model overrides the process-wide default model when non-empty.
	Model string

	// System is the system-role instruction, omitted when empty.
	System string
}

// StreamFunc receives incremental text fragments during streaming
// generation. Returning an error cancels the stream.
type StreamFunc func(fragment string) error

// LLMService provides chat-completion generation.
//
// Chat calls use a long timeout: generation may be slow, and a hung
// backend surfaces to the orchestrator as a failure only after the
// bound elapses. No call retries automatically.
type LLMService interface {
	// Chat produces a single-shot (non-streaming) completion.
	Chat(ctx context.Context, prompt string, opts ChatOptions) (string, error)

	// ChatStream produces a completion incrementally, invoking fn for
	// each fragment. Abandoning the stream by cancelling ctx or
	// returning an error from fn closes the underlying connection;
	// no partial-result recovery is attempted.
	ChatStream(ctx context.Context, prompt string, opts ChatOptions, fn StreamFunc) error

	// ModelName returns the name of the default generation model.
	ModelName() string
}
