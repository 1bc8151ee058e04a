// Package main provides the entry point for the linetodo chat assistant.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/weihant/linetodo/internal/config"
	"github.com/weihant/linetodo/internal/conversation"
	"github.com/weihant/linetodo/internal/line"
	"github.com/weihant/linetodo/internal/session"
	"github.com/weihant/linetodo/internal/todo"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 30 * time.Second

	// ConnectTimeout bounds the initial store connection checks.
	ConnectTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
)

func main() {
	os.Exit(runMain())
}

func runMain() int {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down gracefully...")
		cancel()
	}()

	if err := run(ctx, logger); err != nil {
		logger.Error("Fatal error", slog.Any("error", err))
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	logger.Info("linetodo starting...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sessions, sessionCleanup, err := buildSessionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sessionCleanup()

	todos, todoCleanup, err := buildTodoRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer todoCleanup()

	engine, err := conversation.NewEngine(sessions, todos,
		conversation.WithLogger(logger),
		conversation.WithSessionTTL(cfg.SessionTTL),
	)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	client, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
	if err != nil {
		return fmt.Errorf("failed to build LINE client: %w", err)
	}

	webhookHandler, err := line.NewWebhook(engine, client, cfg.ChannelSecret,
		line.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to build webhook handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /webhook", webhookHandler)
	mux.HandleFunc("GET /healthz", line.HealthHandler)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening for webhook deliveries", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	// Parent context is canceled, so shutdown needs its own context.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	logger.Info("linetodo stopped")
	return nil
}

// buildSessionStore wires the configured session backend. The returned
// cleanup releases the backend's resources.
func buildSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})

		pingCtx, pingCancel := context.WithTimeout(ctx, ConnectTimeout)
		defer pingCancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		return session.NewRedisStore(client), func() { _ = client.Close() }, nil

	default:
		store := session.NewMemoryStore(session.WithLogger(logger))

		// Redis expires keys on its own; the memory store needs a sweeper.
		stop := store.StartSweeper(ctx, session.DefaultSweepInterval)
		return store, stop, nil
	}
}

// buildTodoRepository wires the configured todo backend. The returned
// cleanup releases the backend's resources.
func buildTodoRepository(ctx context.Context, cfg *config.Config) (todo.Repository, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
		}

		pingCtx, pingCancel := context.WithTimeout(ctx, ConnectTimeout)
		defer pingCancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
		}

		repo := todo.NewMongoRepository(client.Database(cfg.MongoDatabase))
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	default:
		return todo.NewMemoryRepository(), func() {}, nil
	}
}
