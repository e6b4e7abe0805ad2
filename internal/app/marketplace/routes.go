// Package marketplace собирает HTTP-сервис оформления подписки продавца.
package marketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/estate-marketplace/internal/config"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/handlers/card/normalize"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/handlers/health"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/handlers/notifications/flash"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/handlers/plans/list"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/handlers/subscription/checkout"
	"github.com/magabrotheeeer/estate-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/estate-marketplace/internal/navigation"
)

// Deps — зависимости обработчиков. Flash и Redis могут быть nil, если redis не настроен.
type Deps struct {
	Tokens        middlewarectx.TokenParser
	NewController func() checkout.Controller
	Flash         flash.Store
	Redis         health.Pinger
	Routes        navigation.Routes
	RateLimit     config.RateLimit
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Продавец определяется по токену, но его отсутствие не блокирует запрос
		r.Use(middlewarectx.SellerMiddleware(deps.Tokens, logger))

		r.Get("/plans", list.New(logger).ServeHTTP)
		r.Post("/card/normalize", normalize.New(logger).ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(logger, deps.RateLimit.RPS, deps.RateLimit.Burst))
			r.Post("/subscription/checkout", checkout.New(logger, deps.NewController, deps.Routes).ServeHTTP)
		})

		if deps.Flash != nil {
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireSeller(logger))
				r.Get("/notifications/flash", flash.New(logger, deps.Flash).ServeHTTP)
			})
		}
	})

	r.Get("/health", health.New(logger, deps.Redis).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
