package conversation

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

// ---- fakes ----

type fakeConversationRepo struct {
	mu          sync.Mutex
	conv        *Conversation
	findErr     error
	titleCalls  []string
	deleteCalls int
}

func (f *fakeConversationRepo) Create(ctx context.Context, conv *Conversation) error {
	conv.ID = 1
	return nil
}

func (f *fakeConversationRepo) FindByPublicID(ctx context.Context, publicID string) (*Conversation, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	c := *f.conv
	return &c, nil
}

func (f *fakeConversationRepo) ListActive(ctx context.Context, userID string, limit int) ([]*Conversation, error) {
	return nil, nil
}

func (f *fakeConversationRepo) UpdateTitle(ctx context.Context, id uint, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleCalls = append(f.titleCalls, title)
	return nil
}

func (f *fakeConversationRepo) Delete(ctx context.Context, id uint) error {
	f.deleteCalls++
	return nil
}

func (f *fakeConversationRepo) titleCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.titleCalls)
}

type contentUpdate struct {
	id          uint
	content     string
	isStreaming bool
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	nextID    uint
	created   []Message
	updates   []contentUpdate
	createErr error
	updateErr error
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *Message) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	msg.ID = f.nextID
	msg.CreatedAt = time.Now()
	f.created = append(f.created, *msg)
	return nil
}

func (f *fakeMessageRepo) UpdateContent(ctx context.Context, id uint, content string, isStreaming bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, contentUpdate{id: id, content: content, isStreaming: isStreaming})
	return nil
}

func (f *fakeMessageRepo) ListByConversationID(ctx context.Context, conversationID uint) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Message, len(f.created))
	copy(out, f.created)
	return out, nil
}

func (f *fakeMessageRepo) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeMessageRepo) allUpdates() []contentUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]contentUpdate, len(f.updates))
	copy(out, f.updates)
	return out
}

type fakeTokenStream struct {
	tokens []string
	err    error
	idx    int
	closed bool
}

func (f *fakeTokenStream) Recv() (string, error) {
	if f.idx < len(f.tokens) {
		tok := f.tokens[f.idx]
		f.idx++
		return tok, nil
	}
	if f.err != nil {
		return "", f.err
	}
	return "", io.EOF
}

func (f *fakeTokenStream) Close() error {
	f.closed = true
	return nil
}

type fakeSource struct {
	stream     TokenStream
	streamErr  error
	title      string
	mu         sync.Mutex
	titleSeeds []string
}

func (f *fakeSource) StreamCompletion(ctx context.Context, history []Message, userText string) (TokenStream, error) {
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return f.stream, nil
}

func (f *fakeSource) SummarizeTitle(ctx context.Context, seed string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titleSeeds = append(f.titleSeeds, seed)
	if f.title == "" {
		return DefaultTitle
	}
	return f.title
}

// ---- helpers ----

func newTestCoordinator(convRepo *fakeConversationRepo, msgRepo *fakeMessageRepo, source CompletionSource, interval int) *StreamCoordinator {
	return NewStreamCoordinator(convRepo, msgRepo, source, interval, zerolog.Nop())
}

func collectEvents(t *testing.T, events <-chan StreamEvent) []StreamEvent {
	t.Helper()
	var out []StreamEvent
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("timed out collecting events, got %d so far", len(out))
		}
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func notFoundErr() error {
	return platformerrors.NewError(
		context.Background(),
		platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound,
		"conversation not found",
		nil,
		"",
	)
}

// ---- tests ----

func TestStreamTurnHappyPath(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc", Title: DefaultTitle}}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"Hi", " there", "!"}}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 50)

	events, err := sc.StreamTurn(context.Background(), "conv_abc", "hello")
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	got := collectEvents(t, events)
	if len(got) != 4 {
		t.Fatalf("got %d events, want 4", len(got))
	}
	for i, want := range []string{"Hi", " there", "!"} {
		if got[i].Type != EventToken || got[i].Content != want {
			t.Errorf("event %d = %+v, want token %q", i, got[i], want)
		}
	}
	last := got[len(got)-1]
	if last.Type != EventComplete {
		t.Errorf("last event = %+v, want complete", last)
	}

	// user message + placeholder written
	if msgRepo.createdCount() != 2 {
		t.Fatalf("created %d messages, want 2", msgRepo.createdCount())
	}
	created := msgRepo.created
	if created[0].Role != RoleUser || created[0].Content != "hello" {
		t.Errorf("first created message = %+v, want user turn", created[0])
	}
	if created[1].Role != RoleAssistant || !created[1].IsStreaming || created[1].Content != "" {
		t.Errorf("second created message = %+v, want empty in-progress placeholder", created[1])
	}
	if last.MessageID != created[1].PublicID {
		t.Errorf("terminal event message_id = %q, want placeholder %q", last.MessageID, created[1].PublicID)
	}

	// terminal checkpoint landed before the complete event was observable
	updates := msgRepo.allUpdates()
	if len(updates) == 0 {
		t.Fatal("no content checkpoints recorded")
	}
	final := updates[len(updates)-1]
	if final.content != "Hi there!" || final.isStreaming {
		t.Errorf("final checkpoint = %+v, want full content with streaming cleared", final)
	}
}

func TestStreamTurnSourceFailure(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc"}}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"Par"}, err: errors.New("upstream exploded")}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 50)

	events, err := sc.StreamTurn(context.Background(), "conv_abc", "hello")
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	got := collectEvents(t, events)
	if len(got) != 2 {
		t.Fatalf("got %d events, want token + error", len(got))
	}
	if got[0].Type != EventToken || got[0].Content != "Par" {
		t.Errorf("first event = %+v, want token \"Par\"", got[0])
	}
	if got[1].Type != EventError {
		t.Fatalf("last event = %+v, want error", got[1])
	}
	if got[1].Content != "Error: upstream exploded" {
		t.Errorf("error event content = %q", got[1].Content)
	}

	// terminal persistence is async; wait for it
	waitFor(t, func() bool {
		updates := msgRepo.allUpdates()
		return len(updates) > 0 && !updates[len(updates)-1].isStreaming
	})
	updates := msgRepo.allUpdates()
	final := updates[len(updates)-1]
	if final.content != "Par"+FailureSuffix {
		t.Errorf("persisted content = %q, want accumulated content plus failure suffix", final.content)
	}
}

func TestStreamTurnImmediateSourceFailure(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc"}}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{streamErr: errors.New("connection refused")}
	sc := newTestCoordinator(convRepo, msgRepo, source, 50)

	events, err := sc.StreamTurn(context.Background(), "conv_abc", "hello")
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	got := collectEvents(t, events)
	if len(got) != 1 || got[0].Type != EventError {
		t.Fatalf("got %+v, want a single error event", got)
	}

	waitFor(t, func() bool {
		updates := msgRepo.allUpdates()
		return len(updates) > 0 && !updates[len(updates)-1].isStreaming
	})
	final := msgRepo.allUpdates()[len(msgRepo.allUpdates())-1]
	if final.content != FailureSuffix {
		t.Errorf("persisted content = %q, want bare failure suffix", final.content)
	}
}

func TestStreamTurnNotFound(t *testing.T) {
	convRepo := &fakeConversationRepo{findErr: notFoundErr()}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{stream: &fakeTokenStream{}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 50)

	_, err := sc.StreamTurn(context.Background(), "conv_missing", "hello")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("StreamTurn() error = %v, want NOT_FOUND", err)
	}
	if msgRepo.createdCount() != 0 {
		t.Errorf("created %d messages, want 0", msgRepo.createdCount())
	}
}

func TestStreamTurnEmptyText(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc"}}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{stream: &fakeTokenStream{}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 50)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := sc.StreamTurn(context.Background(), "conv_abc", text)
		if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation) {
			t.Errorf("StreamTurn(%q) error = %v, want VALIDATION", text, err)
		}
	}
	if msgRepo.createdCount() != 0 {
		t.Errorf("created %d messages, want 0", msgRepo.createdCount())
	}
}

func TestStreamTurnCheckpointBoundaries(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc"}}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"a", "b", "c", "d"}}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 2)

	events, err := sc.StreamTurn(context.Background(), "conv_abc", "hello")
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}
	collectEvents(t, events)

	updates := msgRepo.allUpdates()
	want := []contentUpdate{
		{id: 2, content: "ab", isStreaming: true},
		{id: 2, content: "abcd", isStreaming: true},
		{id: 2, content: "abcd", isStreaming: false},
	}
	if len(updates) != len(want) {
		t.Fatalf("got %d checkpoints %+v, want %d", len(updates), updates, len(want))
	}
	for i, w := range want {
		if updates[i] != w {
			t.Errorf("checkpoint %d = %+v, want %+v", i, updates[i], w)
		}
	}
}

func TestStreamTurnMultiCharTokenSkipsBoundary(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc"}}
	msgRepo := &fakeMessageRepo{}
	// One 3-char token with interval 2: crosses a boundary without landing
	// on a multiple, so no intermediate checkpoint is expected.
	source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"abc"}}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 2)

	events, err := sc.StreamTurn(context.Background(), "conv_abc", "hello")
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}
	collectEvents(t, events)

	updates := msgRepo.allUpdates()
	if len(updates) != 1 {
		t.Fatalf("got %d checkpoints, want only the terminal one", len(updates))
	}
	if updates[0].content != "abc" || updates[0].isStreaming {
		t.Errorf("terminal checkpoint = %+v", updates[0])
	}
}

func TestStreamTurnTitleTaskFirstTurnOnly(t *testing.T) {
	t.Run("first turn schedules exactly one title update", func(t *testing.T) {
		convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc", Title: DefaultTitle}}
		msgRepo := &fakeMessageRepo{}
		source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"ok"}}, title: "Greetings"}
		sc := newTestCoordinator(convRepo, msgRepo, source, 50)

		events, err := sc.StreamTurn(context.Background(), "conv_abc", "hello")
		if err != nil {
			t.Fatalf("StreamTurn() error = %v", err)
		}
		collectEvents(t, events)

		waitFor(t, func() bool { return convRepo.titleCallCount() == 1 })
		convRepo.mu.Lock()
		defer convRepo.mu.Unlock()
		if convRepo.titleCalls[0] != "Greetings" {
			t.Errorf("title update = %q, want %q", convRepo.titleCalls[0], "Greetings")
		}
	})

	t.Run("later turns never touch the title", func(t *testing.T) {
		convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc", Title: "Settled"}}
		msgRepo := &fakeMessageRepo{}
		// Pre-existing history: one full exchange already persisted.
		msgRepo.Create(context.Background(), NewMessage("msg_1", 1, RoleUser, "hi"))
		msgRepo.Create(context.Background(), NewMessage("msg_2", 1, RoleAssistant, "hello"))
		source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"ok"}}}
		sc := newTestCoordinator(convRepo, msgRepo, source, 50)

		events, err := sc.StreamTurn(context.Background(), "conv_abc", "again")
		if err != nil {
			t.Fatalf("StreamTurn() error = %v", err)
		}
		collectEvents(t, events)

		// Give a detached goroutine a chance to run if it was wrongly fired.
		time.Sleep(50 * time.Millisecond)
		if n := convRepo.titleCallCount(); n != 0 {
			t.Errorf("title updated %d times, want 0", n)
		}
	})
}

func TestStreamTurnClientCancellation(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc"}}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"one", "two", "three"}}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 50)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := sc.StreamTurn(ctx, "conv_abc", "hello")
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	// Read one event, then walk away like a disconnected client.
	<-events
	cancel()

	// The channel must still close (no goroutine leak)...
	waitFor(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	})

	// ...and a best-effort terminal checkpoint with streaming cleared lands.
	waitFor(t, func() bool {
		updates := msgRepo.allUpdates()
		return len(updates) > 0 && !updates[len(updates)-1].isStreaming
	})
}

func TestStreamTurnCheckpointFailure(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc"}}
	msgRepo := &fakeMessageRepo{}
	source := &fakeSource{stream: &fakeTokenStream{tokens: []string{"ab"}}}
	sc := newTestCoordinator(convRepo, msgRepo, source, 2)

	msgRepo.updateErr = errors.New("connection reset")

	events, err := sc.StreamTurn(context.Background(), "conv_abc", "hello")
	if err != nil {
		t.Fatalf("StreamTurn() error = %v", err)
	}

	got := collectEvents(t, events)
	last := got[len(got)-1]
	if last.Type != EventError {
		t.Fatalf("last event = %+v, want error after checkpoint failure", last)
	}

	terminal := 0
	for _, ev := range got {
		if ev.Type == EventComplete || ev.Type == EventError {
			terminal++
		}
	}
	if terminal != 1 {
		t.Errorf("got %d terminal events, want exactly 1", terminal)
	}
}
