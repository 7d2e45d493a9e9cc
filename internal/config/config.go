package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the chat-api service.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"CHAT_API_PORT" envDefault:"8184"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// OpenTelemetry
	EnableTracing bool   `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`

	// Database
	DatabaseURL       string        `env:"DATABASE_URL"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBAutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	// Completion source (OpenAI-compatible)
	OpenAIAPIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string        `env:"OPENAI_BASE_URL" envDefault:""`
	CompletionModel     string        `env:"COMPLETION_MODEL" envDefault:"gpt-4o"`
	TitleModel          string        `env:"TITLE_MODEL" envDefault:"gpt-4o"`
	MaxCompletionTokens int           `env:"MAX_COMPLETION_TOKENS" envDefault:"1000"`
	Temperature         float32       `env:"COMPLETION_TEMPERATURE" envDefault:"0.7"`
	CompletionTimeout   time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"2m"`

	// Chat behaviour
	DefaultOwnerID     string `env:"DEFAULT_OWNER_ID" envDefault:"demo-user"`
	CheckpointInterval int    `env:"STREAM_CHECKPOINT_INTERVAL" envDefault:"50"` // accumulated chars between content checkpoints
	ConversationLimit  int    `env:"CONVERSATION_LIST_LIMIT" envDefault:"50"`

	// CORS
	AllowedOrigin string `env:"ALLOWED_ORIGIN" envDefault:"*"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.CheckpointInterval <= 0 {
		return nil, fmt.Errorf("STREAM_CHECKPOINT_INTERVAL must be positive")
	}
	if cfg.ConversationLimit <= 0 {
		return nil, fmt.Errorf("CONVERSATION_LIST_LIMIT must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
