package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"docportal/internal/client"
	"docportal/internal/config"
	"docportal/internal/database"
	"docportal/internal/display"
	"docportal/internal/handlers"
	"docportal/internal/logging"
	"docportal/internal/middleware"
	"docportal/internal/router"
	"docportal/internal/services"
	"docportal/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, os.Getenv("VERBOSE") != "")
	if err != nil {
		log.Fatalf("✗ Logger initialization failed: %v", err)
	}
	defer logger.Sync()

	logger.Info("🚀 Starting docportal", zap.String("env", cfg.Env))

	if err := run(cfg, logger); err != nil {
		logger.Fatal("✗ Server error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	// ──── Step 2: Backend Client ────
	backend, err := client.New(cfg.BackendURL,
		client.WithTimeout(cfg.BackendTimeout),
		client.WithLogger(logger.Named("client")),
	)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	logger.Info("✓ Backend client ready", zap.String("backend", backend.BaseURL()), zap.Duration("timeout", cfg.BackendTimeout))

	// ──── Step 3: Display Board (Redis when configured) ────
	// Matches the session cookie lifetime.
	const displayTTL = 24 * time.Hour

	var board display.Board
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		board = display.NewRedisBoard(redisClient, displayTTL)
		logger.Info("✓ Redis display board connected")
	} else {
		board = display.NewMemoryBoard(display.WithTTL(displayTTL))
		logger.Info("✓ In-memory display board")
	}

	// ──── Step 4: Handlers & Hub ────
	sessions := middleware.NewSessions(cfg.SessionSecret, cfg.IsProduction())
	actionLimiter := middleware.NewRateLimiter(cfg.ActionRateLimit, time.Minute)
	defer actionLimiter.Stop()

	inspector := services.NewDocumentInspector(cfg.MaxUploadBytes)
	viewHandler := handlers.NewViewHandler(backend, board, inspector, logger.Named("view"))
	wsHub := websocket.NewHub(board, logger.Named("ws"))

	// ──── Step 5: Start HTTP Server ────
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router.New(sessions, actionLimiter, viewHandler, wsHub, cfg.TrustProxy),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if cfg.BackendTimeout == 0 {
		server.WriteTimeout = 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(fmt.Sprintf("✓ docportal ready on http://localhost:%s", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
