package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/academy/internal/cache"
	"github.com/example/academy/internal/cleanup"
	"github.com/example/academy/internal/config"
	"github.com/example/academy/internal/database"
	"github.com/example/academy/internal/handlers"
	applog "github.com/example/academy/internal/logger"
	"github.com/example/academy/internal/notify"
	"github.com/example/academy/internal/repository"
	"github.com/example/academy/internal/routes"
	"github.com/example/academy/internal/service"
	"github.com/example/academy/internal/sms"
	"github.com/example/academy/internal/utils"
)

func main() {
	cfg := config.Load()

	zlog, err := applog.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db := database.Connect(cfg.DatabaseURL, cfg.IsProduction(), zlog)
	repo := repository.New(db)

	limiter, closeLimiter := cache.NewLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, zlog)
	defer func() { _ = closeLimiter() }()

	sender := sms.New(cfg.SMSGatewayURL, cfg.SMSAPIKey, cfg.SMSSender, zlog)
	notifier := notify.NewTelegramNotifier("", cfg.TelegramBotToken, cfg.TelegramAdminChat, zlog)
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpires)

	otp := service.NewOTPService(repo, sender, service.OTPConfig{
		RegisterTTL: cfg.RegisterOTPTTL,
		ResetTTL:    cfg.ResetOTPTTL,
	}, zlog)
	auth := service.NewAuthService(repo, otp, tokens, service.AuthConfig{
		LoginAfterSignup:         cfg.LoginAfterSignup,
		RedirectAfterSignupLogin: cfg.RedirectAfterSignupLogin,
	}, zlog)
	checkout := service.NewCheckoutService(repo, notifier, cfg.BypassShopping, zlog)

	scheduler, err := cleanup.NewScheduler(cleanup.NewService(repo, zlog), cfg.OTPCleanupSpec, zlog)
	if err != nil {
		zlog.Fatal("cleanup scheduler init failed", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Academy Backend",
		ErrorHandler: handlers.ErrorHandler(zlog),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, routes.Deps{
		Auth:         auth,
		Catalog:      service.NewCatalogService(repo, zlog),
		Cart:         service.NewCartService(repo, zlog),
		Checkout:     checkout,
		Dashboard:    service.NewDashboardService(repo, zlog),
		Admin:        service.NewAdminService(repo, cfg.IsAdmin),
		Tokens:       tokens,
		Limiter:      limiter,
		OTPSendLimit: cfg.OTPSendLimit,
		Log:          zlog,
	})

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.AppPort))
		if err := app.Listen(":" + cfg.AppPort); err != nil {
			zlog.Fatal("fiber.Listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
}
