package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/config"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/denylist"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/extraction"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/server"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()

	zlog, err := logger.New(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := db.Open(ctx, db.Options{
		Driver:       cfg.DBDriver,
		URL:          cfg.DBURL,
		Path:         cfg.DBPath,
		Schema:       cfg.DBSchema,
		MaxConns:     cfg.DBMaxConns,
		QueryTimeout: time.Duration(cfg.DBQueryTimeoutSec) * time.Second,
	}, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}

	revoked, closeDenylist := openDenylist(ctx, cfg, zlog)

	extractor, err := extraction.New(ctx, extraction.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		MaxRetries: cfg.AIMaxRetries,
		RetryDelay: time.Duration(cfg.AIRetryDelaySec) * time.Second,
	}, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize extraction", zap.Error(err))
	}

	srv, err := server.New(cfg, handle, revoked, extractor, zlog)
	if err != nil {
		zlog.Fatal("failed to build server", zap.Error(err))
	}

	if cfg.AdminPassword != "" {
		created, err := srv.Users.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword)
		switch {
		case err != nil:
			zlog.Error("failed to ensure admin user", zap.Error(err))
		case created:
			zlog.Info("admin user created", zap.String("username", cfg.AdminUsername))
		}
	}

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.Start(ctx, ":"+cfg.Port); err != nil {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := closeDenylist(); err != nil {
		zlog.Error("failed to close redis", zap.Error(err))
	}
}

// openDenylist uses Redis when REDIS_URL is set. Without it, logged out
// access tokens stay valid until they expire. The returned func closes the
// Redis client.
func openDenylist(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (domain.AccessTokenDenylist, func() error) {
	if cfg.RedisURL == "" {
		zlog.Warn("REDIS_URL not set, access tokens are not revoked on logout")
		return denylist.Nop{}, func() error { return nil }
	}

	client, err := denylist.Connect(ctx, cfg.RedisURL)
	if err != nil {
		zlog.Fatal("failed to connect to redis", zap.Error(err))
	}
	d := denylist.NewRedis(client)
	return d, d.Close
}
