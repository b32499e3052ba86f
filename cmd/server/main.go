package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zahlentrainer/internal/audio"
	"zahlentrainer/internal/config"
	"zahlentrainer/internal/database"
	"zahlentrainer/internal/generator"
	"zahlentrainer/internal/handlers"
	"zahlentrainer/internal/logging"
	"zahlentrainer/internal/repository"
	"zahlentrainer/internal/security"
	"zahlentrainer/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	slog.SetDefault(logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	if err := run(cfg); err != nil {
		slog.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("database connection established", slog.String("type", db.Dialect.Name()))

	if err := db.RunMigrations(ctx); err != nil {
		return err
	}

	practiceRepo := repository.NewPracticeRepository(db)
	practiceService := service.NewPracticeService(generator.New(nil), practiceRepo, cfg.HistoryLimit)
	backupService := service.NewBackupService(db)
	settingsService := service.NewSettingsService(repository.NewSettingsRepository(db))

	var ttsService *audio.TTSService
	if cfg.TTSEnabled {
		ttsService, err = audio.NewTTSService(cfg.AudioPath, cfg.TTSLanguage)
		if err != nil {
			return err
		}
		slog.Info("audio enabled", slog.String("dir", cfg.AudioPath), slog.String("language", ttsService.Language()))
	}

	healthHandler := handlers.NewHealthHandler(db)
	mux := handlers.NewRouter(
		handlers.NewPracticeHandler(practiceService, settingsService, ttsService),
		handlers.NewBackupHandler(backupService),
		healthHandler,
	)

	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	go limiter.Run(ctx, time.Hour)

	handler := handlers.Chain(mux,
		handlers.CORS(cfg.CORSOrigins),
		handlers.RateLimit(limiter, cfg.TrustProxy),
		handlers.Logging,
	)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return serve(ctx, server, cfg.ShutdownTimeout, healthHandler.MarkReady)
}

// serve binds server.Addr, calls onReady once the listener is open, and serves
// until ctx is done. A bind failure is returned without calling onReady.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, onReady func()) error {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	slog.Info("server listening", slog.String("addr", ln.Addr().String()))
	onReady()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
