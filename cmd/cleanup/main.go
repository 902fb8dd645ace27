package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/example/academy/internal/cleanup"
	"github.com/example/academy/internal/config"
	"github.com/example/academy/internal/database"
	applog "github.com/example/academy/internal/logger"
	"github.com/example/academy/internal/repository"
)

// Deletes expired OTP codes once and exits.
func main() {
	cfg := config.Load()

	zlog, err := applog.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db := database.Connect(cfg.DatabaseURL, cfg.IsProduction(), zlog)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	n, err := cleanup.NewService(repository.New(db), zlog).PurgeExpired(ctx)
	if err != nil {
		zlog.Fatal("otp cleanup failed", zap.Error(err))
	}
	zlog.Info("otp cleanup completed", zap.Int64("removed", n))
}
