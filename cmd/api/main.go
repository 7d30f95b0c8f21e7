package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/seed"
	"go-stock-pos/internal/server"
	"go-stock-pos/internal/ws"
	"go-stock-pos/pkg/config"
	"go-stock-pos/pkg/database"
	"go-stock-pos/pkg/jwt"
	"go-stock-pos/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.LoadEnv()

	// 2. Logger
	zlog, err := logger.NewZapLogger(&logger.ZapLoggerConfig{
		IsDevelopment:     cfg.IsDevelopment(),
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := db.AutoMigrate(model.Models()...); err != nil {
		zlog.Fatal("failed to migrate schema", zap.Error(err))
	}

	// 4. Default privileges, roles and admin user
	if err := seed.Run(ctx, db, cfg.Seed, zlog.Named("seed")); err != nil {
		zlog.Fatal("failed to seed database", zap.Error(err))
	}

	// 5. WebSocket hub
	hub := ws.NewHub(zlog.Named("ws"))
	go hub.Run(ctx)

	// 6. HTTP server
	tokens := jwt.NewManager(cfg.JWT.SecretKey, time.Duration(cfg.JWT.TTLHours)*time.Hour, cfg.JWT.Issuer)
	app := server.New(db, tokens, hub, zlog, server.Options{
		AppName:     cfg.Server.AppName,
		CORSOrigins: cfg.Server.CORSOrigins,
		AccessLog:   cfg.IsDevelopment(),
		IdleTimeout: time.Duration(cfg.JWT.IdleMinutes) * time.Minute,
	})

	go func() {
		zlog.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.AppEnv))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	// 7. Graceful shutdown
	<-ctx.Done()
	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	zlog.Info("server exited")
}
