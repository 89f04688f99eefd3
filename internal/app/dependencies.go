package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-service/internal/domain"
	"github.com/vladislavdragonenkov/order-service/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/order-service/internal/service/notification"
	"github.com/vladislavdragonenkov/order-service/internal/service/payment"
	"github.com/vladislavdragonenkov/order-service/internal/service/user"
	"github.com/vladislavdragonenkov/order-service/internal/storage/memory"
	"github.com/vladislavdragonenkov/order-service/internal/storage/postgres"
)

// Dependencies содержит собранные зависимости приложения.
type Dependencies struct {
	Repo          domain.OrderRepository
	Users         domain.UserService
	Payments      domain.PaymentService
	Notifications domain.NotificationService
	KafkaProducer *kafka.Producer
	Store         *postgres.Store
	Logger        *log.Entry
}

// NewDependencies собирает зависимости по конфигурации: postgres при заданном DSN,
// иначе in-memory хранилище; реальные HTTP-клиенты при заданных URL, иначе mock-и.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{Logger: logger}

	if cfg.DatabaseDSN != "" {
		store, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.Store = store
		deps.Repo = postgres.NewOrderRepository(store)
		logger.Info("using postgres order storage")
	} else {
		deps.Repo = memory.NewOrderRepository()
		logger.Info("using in-memory order storage")
	}

	if cfg.UserServiceURL != "" {
		deps.Users = user.NewClient(cfg.UserServiceURL, cfg.ClientTimeout, logger.WithField("client", "user"))
	} else {
		logger.Warn("user service URL is not set, using mock client")
		deps.Users = user.NewMockService()
	}

	if cfg.PaymentServiceURL != "" {
		deps.Payments = payment.NewClient(cfg.PaymentServiceURL, cfg.ClientTimeout, logger.WithField("client", "payment"))
	} else {
		logger.Warn("payment service URL is not set, using mock client")
		deps.Payments = payment.NewMockService()
	}

	if cfg.NotificationServiceURL != "" {
		deps.Notifications = notification.NewClient(cfg.NotificationServiceURL, cfg.ClientTimeout, logger.WithField("client", "notification"))
	} else {
		logger.Warn("notification service URL is not set, using mock client")
		deps.Notifications = notification.NewMockService()
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			// Kafka опциональна: сервис работает и без событий.
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			deps.KafkaProducer = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close kafka producer")
		}
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
