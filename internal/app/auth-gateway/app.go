// Package authgateway собирает приложение: хранилище, миграции,
// сервис аутентификации, admission-контроль и HTTP-сервер.
package authgateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/auth-gateway/internal/admission"
	"github.com/magabrotheeeer/auth-gateway/internal/config"
	jwtlib "github.com/magabrotheeeer/auth-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/auth-gateway/internal/lib/session"
	"github.com/magabrotheeeer/auth-gateway/internal/migrations"
	authservice "github.com/magabrotheeeer/auth-gateway/internal/services/auth"
	"github.com/magabrotheeeer/auth-gateway/internal/storage"
)

// App — собранное приложение с HTTP-сервером и подключением к базе.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

func waitForDB(db *storage.Storage) error {
	for range 10 {
		err := storage.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает приложение: подключается к базе, применяет миграции,
// поднимает admission-контроль и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}
	if err = waitForDB(db); err != nil {
		return nil, err
	}

	jwtMaker := jwtlib.NewJWTMaker(cfg.SigningKey(), cfg.TokenTTL)
	authService := authservice.New(db, jwtMaker)
	sessions := session.New(cfg.CookieName, cfg.CookieTTL, cfg.IsProd())

	var window admission.Window
	if cfg.AddressRedis != "" {
		redisWindow, err := admission.NewRedisWindow(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		window = redisWindow
	} else {
		logger.Info("redis is not configured, admission counters are kept in-process")
		window = admission.NewMemoryWindow()
	}
	decider := admission.NewLocalDecider(window)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, authService, sessions, decider)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его по отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
