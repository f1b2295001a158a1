package consumer

import (
	"context"
	"encoding/json"

	"personnel-management/internal/events"
	"personnel-management/internal/leave"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type BalanceInitializer interface {
	EnsureBalance(ctx context.Context, userID string) (leave.BalanceResponse, error)
}

// ConsumeUserLifecycle opens the leave balance of every newly registered
// user. Ensure is idempotent, so redelivery is harmless.
func ConsumeUserLifecycle(
	ctx context.Context,
	reader MessageReader,
	balances BalanceInitializer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.user_lifecycle")
	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message, log *zap.Logger) outcome {
		if t := eventType(msg); t != events.UserRegisteredEventType {
			log.Debug("skip unrelated event", zap.String("event_type", t))
			return commit
		}

		var event events.UserRegisteredEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.UserID == "" {
			log.Error("decode user_registered event failed", zap.Error(err))
			return commit
		}

		balance, err := balances.EnsureBalance(ctx, event.UserID)
		if err != nil {
			log.Error("ensure leave balance failed", zap.String("user_id", event.UserID), zap.Error(err))
			return retry
		}

		log.Info("leave balance ready from user_registered event",
			zap.String("user_id", event.UserID),
			zap.Int("remaining_days", balance.RemainingDays),
		)
		return commit
	})
}
