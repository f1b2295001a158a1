package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"personnel-management/internal/events"
	notificationerrors "personnel-management/internal/notification/errors"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type LeaveDecidedHandler func(ctx context.Context, event events.LeaveDecidedEvent) error

// ConsumeLeaveDecided turns leave decisions into user notifications.
func ConsumeLeaveDecided(
	ctx context.Context,
	reader MessageReader,
	handler LeaveDecidedHandler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	consume(ctx, reader, log, func(ctx context.Context, msg kafkago.Message, log *zap.Logger) outcome {
		if t := eventType(msg); t != events.LeaveDecidedEventType {
			log.Debug("skip unrelated event", zap.String("event_type", t))
			return commit
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_decided event failed", zap.Error(err))
			return commit
		}

		if err := handler(ctx, event); err != nil {
			if errors.Is(err, notificationerrors.ErrUnknownDecision) {
				log.Error("leave_decided event has unknown status",
					zap.String("leave_id", event.RequestID),
					zap.String("status", event.Status),
				)
				return commit
			}

			log.Error("notify leave decision failed",
				zap.String("leave_id", event.RequestID),
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			return retry
		}

		log.Info("leave decision notified",
			zap.String("leave_id", event.RequestID),
			zap.String("user_id", event.UserID),
			zap.String("status", event.Status),
		)
		return commit
	})
}
