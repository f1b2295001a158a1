package app

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"personnel-management/internal/config"
	"personnel-management/internal/events"
	"personnel-management/internal/leave"
	"personnel-management/internal/messaging/kafka/consumer"
	"personnel-management/internal/notification"
	"personnel-management/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer turns leave decisions into notifications and opens balances
// for registered users until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

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

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.MaxRetries)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	notificationService := newNotificationService(cfg, gormDB, notification.NewRedisChannel(redisClient, logger), logger)
	notifier := notification.NewLeaveDecisionNotifier(notificationService)
	leaveService := newLeaveService(cfg, gormDB, leave.NewNoopEventPublisher(), logger)

	decidedReader := newReader(cfg, events.LeaveDecidedTopic, "notifications")
	defer decidedReader.Close()

	lifecycleReader := newReader(cfg, events.UserLifecycleTopic, "leave-balance")
	defer lifecycleReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveDecided(ctx, decidedReader, notifier.PublishLeaveDecided, log)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeUserLifecycle(ctx, lifecycleReader, leaveService, log)
	}()

	<-ctx.Done()
	log.Info("consumer shutting down")
	wg.Wait()

	return nil
}

func newReader(cfg *config.Config, topic, group string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{cfg.Kafka.Broker},
		Topic:       topic,
		GroupID:     cfg.Kafka.GroupID + "-" + group,
		StartOffset: kafkago.FirstOffset,
	})
}
