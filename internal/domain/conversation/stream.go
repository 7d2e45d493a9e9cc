package conversation

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/utils/idgen"
	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

// StreamEventType identifies the kind of a stream event.
type StreamEventType string

const (
	// EventToken carries one text fragment from the completion source.
	EventToken StreamEventType = "token"
	// EventComplete signals normal exhaustion of the token stream.
	EventComplete StreamEventType = "complete"
	// EventError signals a mid-stream failure. Terminal, like EventComplete.
	EventError StreamEventType = "error"
)

// StreamEvent is one record on the event stream returned by StreamTurn.
type StreamEvent struct {
	Type      StreamEventType `json:"type"`
	Content   string          `json:"content"`
	MessageID string          `json:"message_id"`
}

// FailureSuffix is appended to the accumulated content persisted after a
// mid-stream failure, so the stored transcript marks the truncation.
const FailureSuffix = "\n\n[response interrupted before completion]"

// persistTimeout bounds the detached writes that outlive the request context.
const persistTimeout = 10 * time.Second

// titleTimeout bounds the title side-task, which makes its own upstream call.
const titleTimeout = 30 * time.Second

// StreamCoordinator orchestrates one request/stream/persist cycle per call.
// It holds no mutable state between invocations; concurrent calls for the
// same conversation proceed independently and may interleave checkpoints.
type StreamCoordinator struct {
	conversations      Repository
	messages           MessageRepository
	source             CompletionSource
	checkpointInterval int
	log                zerolog.Logger
}

// NewStreamCoordinator creates a stream coordinator.
func NewStreamCoordinator(
	conversations Repository,
	messages MessageRepository,
	source CompletionSource,
	checkpointInterval int,
	log zerolog.Logger,
) *StreamCoordinator {
	return &StreamCoordinator{
		conversations:      conversations,
		messages:           messages,
		source:             source,
		checkpointInterval: checkpointInterval,
		log:                log.With().Str("component", "stream-coordinator").Logger(),
	}
}

// StreamTurn accepts a new user utterance for an existing conversation and
// returns the event stream for the assistant's reply.
//
// Preconditions are checked synchronously before any side effect: an absent
// conversation yields NOT_FOUND and empty text yields VALIDATION, both with
// zero messages written. Once the preconditions pass, the user message and
// the in-progress assistant placeholder are written durably, the ordered
// history (placeholder excluded) is fetched, and production starts. The
// returned channel carries zero or more token events followed by exactly one
// terminal event (complete or error) and is then closed.
func (sc *StreamCoordinator) StreamTurn(ctx context.Context, conversationPublicID, userText string) (<-chan StreamEvent, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message content must not be empty",
			nil,
			"",
		)
	}

	conv, err := sc.conversations.FindByPublicID(ctx, conversationPublicID)
	if err != nil {
		return nil, err
	}

	userMsgID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"failed to generate message ID",
			err,
			"",
		)
	}
	placeholderID, err := idgen.GenerateSecureID("msg", 16)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"failed to generate message ID",
			err,
			"",
		)
	}

	// Point of no return: once the user message lands, the stream proceeds.
	userMsg := NewMessage(userMsgID, conv.ID, RoleUser, userText)
	if err := sc.messages.Create(ctx, userMsg); err != nil {
		return nil, err
	}

	placeholder := NewPlaceholderMessage(placeholderID, conv.ID)
	if err := sc.messages.Create(ctx, placeholder); err != nil {
		return nil, err
	}

	all, err := sc.messages.ListByConversationID(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	history := make([]Message, 0, len(all))
	for _, m := range all {
		if m.ID == placeholder.ID {
			continue
		}
		history = append(history, m)
	}

	// First user turn in the conversation: fire the title side-task. It is
	// never awaited and must not delay the terminal event.
	if len(history) == 1 {
		go sc.generateTitle(conv, userText)
	}

	events := make(chan StreamEvent, 16)
	go sc.produce(ctx, placeholder, history, userText, events)

	return events, nil
}

// produce drives the token stream, fanning each fragment out to the event
// channel and to periodic database checkpoints.
func (sc *StreamCoordinator) produce(ctx context.Context, placeholder *Message, history []Message, userText string, events chan<- StreamEvent) {
	defer close(events)

	stream, err := sc.source.StreamCompletion(ctx, history, userText)
	if err != nil {
		sc.fail(ctx, placeholder, "", err, events)
		return
	}
	defer stream.Close()

	var accumulated strings.Builder
	for {
		token, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			sc.fail(ctx, placeholder, accumulated.String(), err, events)
			return
		}

		accumulated.WriteString(token)

		if !sc.emit(ctx, events, StreamEvent{Type: EventToken, Content: token, MessageID: placeholder.PublicID}) {
			// Client gone. Stop emitting but keep the content: one
			// best-effort terminal checkpoint of what was accumulated.
			sc.persistDetached(placeholder, accumulated.String())
			return
		}

		// Length-triggered checkpoint. Multi-character tokens can skip a
		// boundary; that is accepted write amortization, not a bug.
		if accumulated.Len()%sc.checkpointInterval == 0 {
			if err := sc.messages.UpdateContent(ctx, placeholder.ID, accumulated.String(), true); err != nil {
				sc.fail(ctx, placeholder, accumulated.String(), err, events)
				return
			}
		}
	}

	// Durability before observability: the terminal checkpoint must land
	// before the client sees the complete event.
	if err := sc.messages.UpdateContent(ctx, placeholder.ID, accumulated.String(), false); err != nil {
		sc.fail(ctx, placeholder, accumulated.String(), err, events)
		return
	}

	sc.emit(ctx, events, StreamEvent{Type: EventComplete, MessageID: placeholder.PublicID})
}

// fail emits the error event immediately, then persists the accumulated
// content plus the failure suffix without blocking the client on the write.
func (sc *StreamCoordinator) fail(ctx context.Context, placeholder *Message, accumulated string, cause error, events chan<- StreamEvent) {
	sc.log.Error().
		Err(cause).
		Str("message_id", placeholder.PublicID).
		Int("accumulated_chars", len(accumulated)).
		Msg("stream failed")

	sc.emit(ctx, events, StreamEvent{
		Type:      EventError,
		Content:   "Error: " + cause.Error(),
		MessageID: placeholder.PublicID,
	})

	sc.persistDetached(placeholder, accumulated+FailureSuffix)
}

// persistDetached writes the terminal message state on a fresh context so it
// survives client disconnects and request-context cancellation.
func (sc *StreamCoordinator) persistDetached(placeholder *Message, content string) {
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := sc.messages.UpdateContent(pctx, placeholder.ID, content, false); err != nil {
			sc.log.Error().
				Err(err).
				Str("message_id", placeholder.PublicID).
				Msg("failed to persist terminal message state")
		}
	}()
}

// emit sends an event unless the consumer's context is already done.
func (sc *StreamCoordinator) emit(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// generateTitle is the fire-and-forget title side-task. Failures are logged
// and swallowed; they never surface to the primary stream.
func (sc *StreamCoordinator) generateTitle(conv *Conversation, seed string) {
	ctx, cancel := context.WithTimeout(context.Background(), titleTimeout)
	defer cancel()

	title := sc.source.SummarizeTitle(ctx, seed)
	if err := sc.conversations.UpdateTitle(ctx, conv.ID, title); err != nil {
		sc.log.Warn().
			Err(err).
			Str("conversation_id", conv.PublicID).
			Msg("failed to update conversation title")
		return
	}

	sc.log.Debug().
		Str("conversation_id", conv.PublicID).
		Str("title", title).
		Msg("conversation title updated")
}
