// Package factorymonitor собирает приложение платформы промышленного
// мониторинга: хранилище, кеш, очередь событий, сервисы и HTTP-сервер.
package factorymonitor

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/erzhanov/factory-monitor/internal/cache"
	"github.com/erzhanov/factory-monitor/internal/config"
	"github.com/erzhanov/factory-monitor/internal/lib/credsfile"
	"github.com/erzhanov/factory-monitor/internal/lib/jwt"
	"github.com/erzhanov/factory-monitor/internal/lib/rabbitmq"
	"github.com/erzhanov/factory-monitor/internal/migrations"
	applicationservice "github.com/erzhanov/factory-monitor/internal/services/application"
	authservice "github.com/erzhanov/factory-monitor/internal/services/auth"
	equipmentservice "github.com/erzhanov/factory-monitor/internal/services/equipment"
	factoryservice "github.com/erzhanov/factory-monitor/internal/services/factory"
	subscriptionservice "github.com/erzhanov/factory-monitor/internal/services/subscription"
	"github.com/erzhanov/factory-monitor/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и ресурсы приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: подключает PostgreSQL, применяет миграции,
// подключает Redis и RabbitMQ и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQConnection, 5, 3*time.Second)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	credsWriter, err := credsfile.NewWriter(cfg.CredentialsDir)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker, logger)
	applicationService := applicationservice.New(db, credsWriter, publisher, logger)
	subscriptionService := subscriptionservice.New(db, cacheRedis, logger)
	equipmentService := equipmentservice.New(db, subscriptionService, logger)
	factoryService := factoryservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger,
		authService, applicationService, equipmentService, factoryService, subscriptionService)

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

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
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
		_ = a.db.DB.Close()
		return err
	}
}
