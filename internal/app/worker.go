package app

import (
	"context"
	"os/signal"
	"syscall"

	"personnel-management/internal/config"
	"personnel-management/internal/messaging/kafka"
	"personnel-management/internal/messaging/kafka/producer"
	"personnel-management/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox rows to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.worker")

	if err := cfg.RequireKafka(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gormDB, closeDB, err := connectDatabase(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer closeDB()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Kafka.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(gormDB)

	producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		log,
		cfg.Kafka.PollInterval,
	)

	log.Info("worker shutting down")
	return nil
}
