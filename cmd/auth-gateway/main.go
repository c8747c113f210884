// Package main Auth Gateway API
//
// @title           Auth Gateway API
// @version         1.0
// @description     API регистрации, входа и выхода пользователей
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /api/v1
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	authgateway "github.com/magabrotheeeer/auth-gateway/internal/app/auth-gateway"
	"github.com/magabrotheeeer/auth-gateway/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting auth-gateway", slog.String("env", cfg.Env))
	if cfg.UsesDefaultSecret() {
		logger.Warn("jwt_secret_key is not set, using insecure built-in default")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := authgateway.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("auth-gateway stopped gracefully")
}
