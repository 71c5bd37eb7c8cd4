// Package notifier собирает процесс отправки почтовых уведомлений:
// подключение к брокеру, потребителей очередей и SMTP транспорт.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/studyhub-app/gamification-service/internal/config"
	"github.com/studyhub-app/gamification-service/internal/lib/rabbitmq"
	"github.com/studyhub-app/gamification-service/internal/lib/smtp"
	notifierservice "github.com/studyhub-app/gamification-service/internal/services/notifier"
	"github.com/studyhub-app/gamification-service/internal/storage/repository"
)

// App представляет приложение отправки уведомлений.
type App struct {
	conn            *amqp.Connection
	ch              *amqp.Channel
	db              *repository.Storage
	notifierService *notifierservice.Service
	logger          *slog.Logger
}

// New создает новый экземпляр приложения уведомлений.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	transport := smtp.NewTransport(cfg, logger)
	notifierService := notifierservice.New(transport, db, logger)

	return &App{
		conn:            conn,
		ch:              ch,
		db:              db,
		notifierService: notifierService,
		logger:          logger,
	}, nil
}

// Run запускает потребителей очередей и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.AchievementsQueue, func(body []byte) error {
		return a.notifierService.SendAchievementUnlocked(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start achievements consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.TrialExpiringQueue, func(body []byte) error {
		return a.notifierService.SendTrialExpiring(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start trial_expiring consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}
	return nil
}
