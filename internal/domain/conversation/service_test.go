package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"jarvis-server/services/chat-api/internal/utils/platformerrors"
)

func TestCreateConversation(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantTitle string
	}{
		{name: "explicit title", title: "Project planning", wantTitle: "Project planning"},
		{name: "empty title falls back to placeholder", title: "", wantTitle: DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			convRepo := &fakeConversationRepo{}
			svc := NewService(convRepo, &fakeMessageRepo{}, 50, zerolog.Nop())

			conv, err := svc.CreateConversation(context.Background(), "demo-user", tt.title)
			if err != nil {
				t.Fatalf("CreateConversation() error = %v", err)
			}
			if conv.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", conv.Title, tt.wantTitle)
			}
			if conv.UserID != "demo-user" {
				t.Errorf("user id = %q, want demo-user", conv.UserID)
			}
			if !strings.HasPrefix(conv.PublicID, "conv_") {
				t.Errorf("public id = %q, want conv_ prefix", conv.PublicID)
			}
		})
	}
}

func TestGetConversationWithMessages(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 1, PublicID: "conv_abc", Title: "Hi"}}
	msgRepo := &fakeMessageRepo{}
	msgRepo.Create(context.Background(), NewMessage("msg_1", 1, RoleUser, "hello"))
	msgRepo.Create(context.Background(), NewMessage("msg_2", 1, RoleAssistant, "hi there"))
	svc := NewService(convRepo, msgRepo, 50, zerolog.Nop())

	conv, err := svc.GetConversationWithMessages(context.Background(), "conv_abc")
	if err != nil {
		t.Fatalf("GetConversationWithMessages() error = %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(conv.Messages))
	}
	if conv.Messages[0].PublicID != "msg_1" || conv.Messages[1].PublicID != "msg_2" {
		t.Errorf("messages out of order: %+v", conv.Messages)
	}
}

func TestGetConversationNotFound(t *testing.T) {
	convRepo := &fakeConversationRepo{findErr: notFoundErr()}
	svc := NewService(convRepo, &fakeMessageRepo{}, 50, zerolog.Nop())

	_, err := svc.GetConversationWithMessages(context.Background(), "conv_missing")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestDeleteConversation(t *testing.T) {
	convRepo := &fakeConversationRepo{conv: &Conversation{ID: 7, PublicID: "conv_abc"}}
	svc := NewService(convRepo, &fakeMessageRepo{}, 50, zerolog.Nop())

	if err := svc.DeleteConversation(context.Background(), "conv_abc"); err != nil {
		t.Fatalf("DeleteConversation() error = %v", err)
	}
	if convRepo.deleteCalls != 1 {
		t.Errorf("delete calls = %d, want 1", convRepo.deleteCalls)
	}
}

func TestDeleteConversationNotFound(t *testing.T) {
	convRepo := &fakeConversationRepo{findErr: notFoundErr()}
	svc := NewService(convRepo, &fakeMessageRepo{}, 50, zerolog.Nop())

	err := svc.DeleteConversation(context.Background(), "conv_missing")
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
	if convRepo.deleteCalls != 0 {
		t.Errorf("delete calls = %d, want 0", convRepo.deleteCalls)
	}
}
