// Command createadmin adds a user to the configured database.
//
//	go run ./cmd/createadmin -username admin -password 'long-password'
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/config"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/denylist"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/dto"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/repository"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/service"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	username := flag.String("username", cfg.AdminUsername, "username of the new user")
	password := flag.String("password", cfg.AdminPassword, "password of the new user")
	flag.Parse()

	input := dto.RegisterInput{Username: *username, Password: *password}
	if err := httpx.Validate(input); err != nil {
		log.Fatalf("invalid user: %v", err)
	}

	zlog, err := logger.New(&logger.Config{Level: cfg.LogLevel})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	handle, err := db.Open(ctx, db.Options{
		Driver:       cfg.DBDriver,
		URL:          cfg.DBURL,
		Path:         cfg.DBPath,
		Schema:       cfg.DBSchema,
		MaxConns:     1,
		QueryTimeout: time.Duration(cfg.DBQueryTimeoutSec) * time.Second,
	}, zlog)
	if err != nil {
		zlog.Fatal("failed to open database", zap.Error(err))
	}
	defer handle.Close()

	users := service.NewUserService(
		repository.NewUserRepository(handle),
		repository.NewRefreshTokenRepository(handle),
		service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin),
		denylist.Nop{},
		cfg.MaxActiveRefreshTokens,
		zlog,
	)

	created, err := users.EnsureUser(ctx, input.Username, input.Password)
	if err != nil {
		zlog.Fatal("failed to create user", zap.Error(err))
	}
	if !created {
		zlog.Info("user already exists", zap.String("username", input.Username))
		return
	}
	zlog.Info("user created", zap.String("username", input.Username))
}
