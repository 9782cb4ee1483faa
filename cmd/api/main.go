package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/career-companion/backend/internal/config"
	"github.com/zhouzirui/career-companion/backend/internal/handler"
	"github.com/zhouzirui/career-companion/backend/internal/logging"
	"github.com/zhouzirui/career-companion/backend/internal/model/profile"
	"github.com/zhouzirui/career-companion/backend/internal/model/reply"
	"github.com/zhouzirui/career-companion/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, using system environment variables only", zap.Error(envErr))
	}

	catalog, err := reply.LoadOrSeed(cfg.Chat.CatalogFile)
	if err != nil {
		logger.Fatal("failed to load reply catalog", zap.String("path", cfg.Chat.CatalogFile), zap.Error(err))
	}

	profiles, closeProfiles, err := openProfileStore(cfg.Profile)
	if err != nil {
		logger.Fatal("failed to open profile store", zap.Error(err))
	}
	defer closeProfiles()

	chatService := chat.NewService(catalog, logger.Named("chat"), chat.WithReplyDelay(cfg.Chat.ReplyDelay))
	defer chatService.Close()

	logger.Info("chat service initialized",
		zap.Duration("reply_delay", cfg.Chat.ReplyDelay),
		zap.Int("suggested_prompts", len(catalog.Prompts)),
	)

	router := handler.NewRouter(handler.Deps{
		Chat:           chatService,
		Replies:        catalog.Table,
		Profiles:       profiles,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func openProfileStore(cfg config.ProfileConfig) (profile.Store, func(), error) {
	if cfg.DBPath == "" {
		return profile.NewMemoryStore(), func() {}, nil
	}
	store, err := profile.OpenSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("career companion backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
