package conversation

import "context"

// TokenStream is a lazy, finite, non-restartable sequence of text fragments.
// Recv returns io.EOF on normal exhaustion and any other error on
// mid-sequence failure. Close releases the underlying connection and is safe
// to call more than once.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// CompletionSource wraps the chat-completion capability.
type CompletionSource interface {
	// StreamCompletion opens a token stream seeded with the prior
	// conversation history and the new user turn. The adapter owns the
	// system persona prompt; callers pass raw history only.
	StreamCompletion(ctx context.Context, history []Message, userText string) (TokenStream, error)

	// SummarizeTitle derives a short conversation title from the seed text.
	// It never fails past its own boundary: any upstream error maps to the
	// fixed fallback title.
	SummarizeTitle(ctx context.Context, seed string) string
}
