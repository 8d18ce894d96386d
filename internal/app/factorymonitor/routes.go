// Package factorymonitor предоставляет маршруты для основного приложения.
package factorymonitor

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	applicationcreate "github.com/erzhanov/factory-monitor/internal/http/handlers/application/create"
	applicationcreds "github.com/erzhanov/factory-monitor/internal/http/handlers/application/credentials"
	applicationapprove "github.com/erzhanov/factory-monitor/internal/http/handlers/application/approve"
	applicationlist "github.com/erzhanov/factory-monitor/internal/http/handlers/application/list"
	applicationread "github.com/erzhanov/factory-monitor/internal/http/handlers/application/read"
	applicationreject "github.com/erzhanov/factory-monitor/internal/http/handlers/application/reject"
	"github.com/erzhanov/factory-monitor/internal/http/handlers/auth/login"
	"github.com/erzhanov/factory-monitor/internal/http/handlers/auth/me"
	equipmentcreate "github.com/erzhanov/factory-monitor/internal/http/handlers/equipment/create"
	equipmentlist "github.com/erzhanov/factory-monitor/internal/http/handlers/equipment/list"
	equipmentread "github.com/erzhanov/factory-monitor/internal/http/handlers/equipment/read"
	factorylist "github.com/erzhanov/factory-monitor/internal/http/handlers/factory/list"
	factoryread "github.com/erzhanov/factory-monitor/internal/http/handlers/factory/read"
	subscriptionlist "github.com/erzhanov/factory-monitor/internal/http/handlers/subscription/list"
	subscriptionplans "github.com/erzhanov/factory-monitor/internal/http/handlers/subscription/plans"
	"github.com/erzhanov/factory-monitor/internal/http/middlewarectx"
	applicationservice "github.com/erzhanov/factory-monitor/internal/services/application"
	authservice "github.com/erzhanov/factory-monitor/internal/services/auth"
	equipmentservice "github.com/erzhanov/factory-monitor/internal/services/equipment"
	factoryservice "github.com/erzhanov/factory-monitor/internal/services/factory"
	subscriptionservice "github.com/erzhanov/factory-monitor/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	applicationService *applicationservice.Service,
	equipmentService *equipmentservice.Service,
	factoryService *factoryservice.Service,
	subscriptionService *subscriptionservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	publicLimiter := rate.NewLimiter(1, 3)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/subscriptions/plans", subscriptionplans.New(logger, subscriptionService).ServeHTTP)
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(publicLimiter, logger))
			r.Post("/applications", applicationcreate.New(logger, applicationService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Get("/auth/me", me.New(logger).ServeHTTP)

			r.Get("/applications", applicationlist.New(logger, applicationService).ServeHTTP)
			r.Get("/applications/{id}", applicationread.New(logger, applicationService).ServeHTTP)
			r.Post("/applications/{id}/approve", applicationapprove.New(logger, applicationService).ServeHTTP)
			r.Post("/applications/{id}/reject", applicationreject.New(logger, applicationService).ServeHTTP)
			r.Get("/applications/{id}/credentials", applicationcreds.New(logger, applicationService).ServeHTTP)

			r.Get("/equipment", equipmentlist.New(logger, equipmentService).ServeHTTP)
			r.Get("/equipment/{id}", equipmentread.New(logger, equipmentService).ServeHTTP)
			r.Post("/equipment", equipmentcreate.New(logger, equipmentService).ServeHTTP)

			r.Get("/factories", factorylist.New(logger, factoryService).ServeHTTP)
			r.Get("/factories/{id}", factoryread.New(logger, factoryService).ServeHTTP)

			r.Get("/subscriptions", subscriptionlist.New(logger, subscriptionService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
