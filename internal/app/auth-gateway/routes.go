// Package authgateway предоставляет маршруты приложения.
package authgateway

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/auth-gateway/internal/admission"
	"github.com/magabrotheeeer/auth-gateway/internal/config"
	"github.com/magabrotheeeer/auth-gateway/internal/http/handlers/auth/signin"
	"github.com/magabrotheeeer/auth-gateway/internal/http/handlers/auth/signout"
	"github.com/magabrotheeeer/auth-gateway/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/auth-gateway/internal/http/handlers/health"
	"github.com/magabrotheeeer/auth-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-gateway/internal/lib/session"
	authservice "github.com/magabrotheeeer/auth-gateway/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, authService *authservice.Service, sessions *session.Manager, decider admission.Decider) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Личность из cookie нужна до admission-контроля:
		// лимит выбирается по роли вызывающего.
		r.Use(middlewarectx.SessionMiddleware(authService, sessions, logger))
		r.Use(middlewarectx.AdmissionMiddleware(decider, cfg.Admission, logger))

		r.Post("/sign-up", signup.New(logger, authService, sessions).ServeHTTP)
		r.Post("/sign-in", signin.New(logger, authService, sessions).ServeHTTP)
		r.Post("/sign-out", signout.New(logger, sessions).ServeHTTP)
		r.Get("/healthz", health.New(logger).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
