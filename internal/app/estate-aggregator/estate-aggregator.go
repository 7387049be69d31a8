package estateaggregator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/estate-aggregator/internal/cache"
	"github.com/magabrotheeeer/estate-aggregator/internal/config"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/health"
	libjwt "github.com/magabrotheeeer/estate-aggregator/internal/lib/jwt"
	libsmtp "github.com/magabrotheeeer/estate-aggregator/internal/lib/smtp"
	"github.com/magabrotheeeer/estate-aggregator/internal/migrations"
	"github.com/magabrotheeeer/estate-aggregator/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
	mailerservice "github.com/magabrotheeeer/estate-aggregator/internal/services/mailer"
	otpservice "github.com/magabrotheeeer/estate-aggregator/internal/services/otp"
	projectservice "github.com/magabrotheeeer/estate-aggregator/internal/services/project"
	userservice "github.com/magabrotheeeer/estate-aggregator/internal/services/user"
	"github.com/magabrotheeeer/estate-aggregator/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и подключения к внешним системам.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение: базу с миграциями, redis, очередь уведомлений,
// почтовый транспорт, сервисы и маршруты. Очередь уведомлений
// опциональна: без rabbitmq_url регистрация работает, приветственные
// письма не отправляются.
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

	var publisher *rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn)
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewPublisher(ch)
	} else {
		logger.Warn("rabbitmq_url is not set, welcome emails are disabled")
	}

	jwtMaker := libjwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	transport := libsmtp.NewTransport(cfg.SMTP, logger)
	mailer := mailerservice.NewService(transport, logger)
	otpEngine := otpservice.NewService(db, cfg.OTPTTL)

	var events authservice.EventPublisher
	if publisher != nil {
		events = publisher
	}
	authService := authservice.NewService(db, otpEngine, mailer, events, jwtMaker, logger)
	userService := userservice.NewService(db, logger)
	projectService := projectservice.NewService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, authService, userService, projectService)
	router.Get("/health", health.New(db.DB).ServeHTTP)

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
		a.db.DB.Close()
		return err
	}
}
