// @title           Chat API
// @version         1.0
// @description     Chat API service backed by PostgreSQL and an OpenAI-compatible model.
// @description     Provides conversation management and streamed assistant turns over SSE.

// @contact.name   SynthioLabs Team
// @contact.url    https://github.com/synthiolabs/jarvis-server

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8184
// @BasePath  /

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "net/http/pprof"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jarvis-server/services/chat-api/internal/config"
	"jarvis-server/services/chat-api/internal/domain/conversation"
	"jarvis-server/services/chat-api/internal/infrastructure/completion"
	"jarvis-server/services/chat-api/internal/infrastructure/database"
	"jarvis-server/services/chat-api/internal/infrastructure/logger"
	"jarvis-server/services/chat-api/internal/infrastructure/observability"
	convrepo "jarvis-server/services/chat-api/internal/infrastructure/repository/conversation"
	msgrepo "jarvis-server/services/chat-api/internal/infrastructure/repository/message"
	"jarvis-server/services/chat-api/internal/interfaces/httpserver"
)

// Application holds the main application components.
type Application struct {
	httpServer *httpserver.HTTPServer
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *httpserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the application until the context is cancelled. The pprof
// listener shares the lifecycle of the API server.
func (a *Application) Start(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	pprofServer := &http.Server{Addr: "localhost:6060"}
	eg.Go(func() error {
		err := pprofServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn().Err(err).Msg("pprof listener stopped")
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		return pprofServer.Close()
	})
	eg.Go(func() error {
		return a.httpServer.Run(ctx)
	})

	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// Connect to PostgreSQL
	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogLevel:        database.LogLevelFromString(cfg.LogLevel),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DBAutoMigrate {
		if err := database.AutoMigrate(ctx, db, log); err != nil {
			log.Fatal().Err(err).Msg("failed to run database migrations")
		}
	}

	// Initialize repositories
	conversationRepo := convrepo.NewRepository(db)
	messageRepo := msgrepo.NewRepository(db)

	// Initialize the completion client
	completionClient := completion.NewClient(cfg, log)

	// Initialize domain services
	conversationService := conversation.NewService(conversationRepo, messageRepo, cfg.ConversationLimit, log)
	coordinator := conversation.NewStreamCoordinator(conversationRepo, messageRepo, completionClient, cfg.CheckpointInterval, log)

	// Initialize HTTP server
	httpServer := httpserver.New(cfg, log, conversationService, coordinator)

	app := NewApplication(httpServer, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Str("model", cfg.CompletionModel).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
