// Package completion adapts an OpenAI-compatible chat completion API to the
// domain's CompletionSource contract.
package completion

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"jarvis-server/services/chat-api/internal/config"
	"jarvis-server/services/chat-api/internal/domain/conversation"
	"jarvis-server/services/chat-api/internal/infrastructure/metrics"
)

// systemPrompt is the fixed assistant persona prefixed to every completion.
// The coordinator never sees it; prompt content is owned here.
const systemPrompt = `You are Jarvis, an intelligent AI assistant created by SynthioLabs. You are helpful, knowledgeable, and friendly.

Key traits:
- Provide accurate, helpful responses
- Be concise but thorough when needed
- Ask clarifying questions when context is unclear
- Maintain a professional yet approachable tone
- Focus on practical, actionable advice

You excel at programming, technology discussions, problem-solving, and general knowledge queries. Always strive to be helpful while being honest about your limitations.`

// titleInstruction drives the single-shot title side-task.
const titleInstruction = "Generate a short, descriptive title (max 6 words) for a chat conversation based on the user's first message. Be concise and capture the main topic."

const (
	titleMaxTokens   = 20
	titleTemperature = 0.3
	titleMaxLength   = 256
)

// Client implements conversation.CompletionSource over go-openai.
type Client struct {
	client          *openai.Client
	completionModel string
	titleModel      string
	maxTokens       int
	temperature     float32
	log             zerolog.Logger
}

// NewClient creates a completion client from the service configuration.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &Client{
		client:          openai.NewClientWithConfig(clientCfg),
		completionModel: cfg.CompletionModel,
		titleModel:      cfg.TitleModel,
		maxTokens:       cfg.MaxCompletionTokens,
		temperature:     cfg.Temperature,
		log:             log.With().Str("component", "completion-client").Logger(),
	}
}

var _ conversation.CompletionSource = (*Client)(nil)

// StreamCompletion opens a streaming chat completion seeded with the persona
// prompt, the persisted history, and the new user turn.
func (c *Client) StreamCompletion(ctx context.Context, history []conversation.Message, userText string) (conversation.TokenStream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       c.completionModel,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Stream:      true,
	})
	if err != nil {
		c.log.Error().Err(err).Str("model", c.completionModel).Msg("failed to open completion stream")
		return nil, err
	}

	return &tokenStream{stream: stream}, nil
}

// SummarizeTitle derives a short conversation title from the seed text.
// Any upstream failure maps to the fixed fallback; this call never fails
// past its own boundary.
func (c *Client) SummarizeTitle(ctx context.Context, seed string) string {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.titleModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: titleInstruction},
			{Role: openai.ChatMessageRoleUser, Content: "First message: " + seed},
		},
		MaxTokens:   titleMaxTokens,
		Temperature: titleTemperature,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("title generation failed, using fallback")
		metrics.RecordTitleGeneration("error")
		return conversation.DefaultTitle
	}
	if len(resp.Choices) == 0 {
		metrics.RecordTitleGeneration("empty")
		return conversation.DefaultTitle
	}

	title := sanitizeTitle(resp.Choices[0].Message.Content)
	if title == "" {
		metrics.RecordTitleGeneration("empty")
		return conversation.DefaultTitle
	}

	metrics.RecordTitleGeneration("ok")
	return title
}

func sanitizeTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, `"'`)
	title = strings.TrimSpace(title)
	if len(title) > titleMaxLength {
		title = title[:titleMaxLength]
	}
	return title
}

// tokenStream adapts the go-openai stream to the domain TokenStream.
type tokenStream struct {
	stream *openai.ChatCompletionStream
}

// Recv returns the next non-empty text fragment. io.EOF signals normal
// exhaustion; every other error is a mid-sequence failure.
func (t *tokenStream) Recv() (string, error) {
	for {
		resp, err := t.stream.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if content := resp.Choices[0].Delta.Content; content != "" {
			return content, nil
		}
	}
}

func (t *tokenStream) Close() error {
	return t.stream.Close()
}
