package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/domain/conversation"
	"jarvis-server/services/chat-api/internal/infrastructure/metrics"
	"jarvis-server/services/chat-api/internal/interfaces/httpserver/middlewares"
	"jarvis-server/services/chat-api/internal/interfaces/httpserver/responses"
	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

// StreamHandler handles streamed completion turns over SSE.
type StreamHandler struct {
	coordinator *conversation.StreamCoordinator
	log         zerolog.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(coordinator *conversation.StreamCoordinator, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		coordinator: coordinator,
		log:         log.With().Str("component", "stream_handler").Logger(),
	}
}

// Stream runs a full assistant turn for the conversation and relays the
// event stream to the client as SSE data frames. The HTTP status is
// committed before the first event, so coordinator failures after that
// point surface as an in-band error event rather than a status code.
func (h *StreamHandler) Stream(c *gin.Context, conversationPublicID, userText string) {
	events, err := h.coordinator.StreamTurn(c.Request.Context(), conversationPublicID, userText)
	if err != nil {
		responses.HandleError(c, err, "failed to start stream")
		return
	}

	flusher, ok := middlewares.PrepareSSE(c)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "streaming unsupported")
		return
	}

	started := time.Now()
	metrics.RecordStreamStarted()
	outcome := "cancelled"

	for event := range events {
		switch event.Type {
		case conversation.EventToken:
			metrics.RecordTokenEmitted()
		case conversation.EventComplete:
			outcome = "complete"
		case conversation.EventError:
			outcome = "error"
		}
		if err := h.writeSSEData(c, flusher, event); err != nil {
			h.log.Debug().Err(err).
				Str("conversation_id", conversationPublicID).
				Msg("client connection lost during stream")
			// Drain so the coordinator can finish its terminal work.
			for range events {
			}
			break
		}
	}

	metrics.RecordStreamFinished(outcome, started)
}

// writeSSEData writes a single SSE data frame and flushes it.
func (h *StreamHandler) writeSSEData(c *gin.Context, flusher http.Flusher, event conversation.StreamEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := c.Writer.Write([]byte("data: ")); err != nil {
		return err
	}
	if _, err := c.Writer.Write(payload); err != nil {
		return err
	}
	if _, err := c.Writer.Write([]byte("\n\n")); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
