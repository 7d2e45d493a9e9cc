package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/domain/conversation"
	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

type stubConversationRepo struct {
	conv    *conversation.Conversation
	findErr error
}

func (s *stubConversationRepo) Create(ctx context.Context, conv *conversation.Conversation) error {
	conv.ID = 1
	return nil
}

func (s *stubConversationRepo) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	c := *s.conv
	return &c, nil
}

func (s *stubConversationRepo) ListActive(ctx context.Context, userID string, limit int) ([]*conversation.Conversation, error) {
	return nil, nil
}

func (s *stubConversationRepo) UpdateTitle(ctx context.Context, id uint, title string) error {
	return nil
}

func (s *stubConversationRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

type stubMessageRepo struct {
	nextID uint
}

func (s *stubMessageRepo) Create(ctx context.Context, msg *conversation.Message) error {
	s.nextID++
	msg.ID = s.nextID
	msg.CreatedAt = time.Now()
	return nil
}

func (s *stubMessageRepo) UpdateContent(ctx context.Context, id uint, content string, isStreaming bool) error {
	return nil
}

func (s *stubMessageRepo) ListByConversationID(ctx context.Context, conversationID uint) ([]conversation.Message, error) {
	return nil, nil
}

type stubTokenStream struct {
	tokens []string
	err    error
	idx    int
}

func (s *stubTokenStream) Recv() (string, error) {
	if s.idx < len(s.tokens) {
		tok := s.tokens[s.idx]
		s.idx++
		return tok, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *stubTokenStream) Close() error { return nil }

type stubSource struct {
	tokens    []string
	streamErr error
	recvErr   error
}

func (s *stubSource) StreamCompletion(ctx context.Context, history []conversation.Message, userText string) (conversation.TokenStream, error) {
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	return &stubTokenStream{tokens: s.tokens, err: s.recvErr}, nil
}

func (s *stubSource) SummarizeTitle(ctx context.Context, seed string) string {
	return conversation.DefaultTitle
}

func newStreamTestServer(convRepo *stubConversationRepo, source conversation.CompletionSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	coordinator := conversation.NewStreamCoordinator(convRepo, &stubMessageRepo{}, source, 50, zerolog.Nop())
	handler := NewStreamHandler(coordinator, zerolog.Nop())

	engine := gin.New()
	engine.POST("/conversations/:id/stream", func(c *gin.Context) {
		var req struct {
			Content string `json:"content"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		handler.Stream(c, c.Param("id"), req.Content)
	})
	return engine
}

func parseSSEEvents(t *testing.T, body string) []conversation.StreamEvent {
	t.Helper()
	var out []conversation.StreamEvent
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev conversation.StreamEvent
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
			t.Fatalf("unmarshal event %q: %v", line, err)
		}
		out = append(out, ev)
	}
	return out
}

func activeConversation() *conversation.Conversation {
	return &conversation.Conversation{
		ID:       1,
		PublicID: "conv_test1234",
		Object:   "conversation",
		Title:    conversation.DefaultTitle,
		UserID:   "demo-user",
	}
}

func TestStreamEmitsTokensAndCompletes(t *testing.T) {
	convRepo := &stubConversationRepo{conv: activeConversation()}
	source := &stubSource{tokens: []string{"Hello", " world"}}
	engine := newStreamTestServer(convRepo, source)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv_test1234/stream", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q, want text/event-stream", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", cc)
	}

	events := parseSSEEvents(t, rec.Body.String())
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(events), events)
	}
	if events[0].Type != conversation.EventToken || events[0].Content != "Hello" {
		t.Errorf("first event = %+v, want token Hello", events[0])
	}
	if events[1].Type != conversation.EventToken || events[1].Content != " world" {
		t.Errorf("second event = %+v, want token ' world'", events[1])
	}
	if events[2].Type != conversation.EventComplete {
		t.Errorf("terminal event = %+v, want complete", events[2])
	}
	if events[2].MessageID == "" {
		t.Error("terminal event missing message_id")
	}
}

func TestStreamConversationNotFound(t *testing.T) {
	convRepo := &stubConversationRepo{findErr: platformerrors.NewError(
		context.Background(),
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound,
		"conversation not found",
		nil,
		"",
	)}
	engine := newStreamTestServer(convRepo, &stubSource{tokens: []string{"x"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv_missing/stream", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if strings.Contains(rec.Header().Get("Content-Type"), "text/event-stream") {
		t.Error("error response must not be an SSE stream")
	}
}

func TestStreamEmptyContentRejected(t *testing.T) {
	convRepo := &stubConversationRepo{conv: activeConversation()}
	engine := newStreamTestServer(convRepo, &stubSource{tokens: []string{"x"}})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv_test1234/stream", strings.NewReader(`{"content":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestStreamUpstreamFailureEmitsErrorEvent(t *testing.T) {
	convRepo := &stubConversationRepo{conv: activeConversation()}
	source := &stubSource{tokens: []string{"par"}, recvErr: errors.New("upstream exploded")}
	engine := newStreamTestServer(convRepo, source)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/conv_test1234/stream", strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	// The stream was already committed, so the failure arrives in-band.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	events := parseSSEEvents(t, rec.Body.String())
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	last := events[len(events)-1]
	if last.Type != conversation.EventError {
		t.Fatalf("terminal event = %+v, want error", last)
	}
	if last.Content != "Error: upstream exploded" {
		t.Errorf("error content = %q, want %q", last.Content, "Error: upstream exploded")
	}
}
