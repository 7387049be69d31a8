// Package notificationsender собирает воркер приветственных писем:
// потребляет события регистрации из RabbitMQ и отправляет письма по SMTP.
package notificationsender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/estate-aggregator/internal/config"
	libsmtp "github.com/magabrotheeeer/estate-aggregator/internal/lib/smtp"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	"github.com/magabrotheeeer/estate-aggregator/internal/rabbitmq"
	mailerservice "github.com/magabrotheeeer/estate-aggregator/internal/services/mailer"
)

type App struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	mailer *mailerservice.Service
	logger *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := libsmtp.NewTransport(cfg.SMTP, logger)
	mailer := mailerservice.NewService(transport, logger)

	return &App{
		conn:   conn,
		ch:     ch,
		mailer: mailer,
		logger: logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	handler := func(body []byte) error {
		var event models.UserRegisteredEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("error unmarshalling message: %w", err)
		}
		return a.mailer.SendWelcome(event.Username, event.Email)
	}

	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.UserRegisteredQueue, handler)
	if err != nil {
		a.logger.Error("failed to start user_registered consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("Notification sender shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
