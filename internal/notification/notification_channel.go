package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_channel.go -destination=mock/notification_channel_mock.go -package=mock
type Channel interface {
	Emit(ctx context.Context, userID, event string, payload any) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, userID string) (<-chan StreamMessage, error)
}

// StreamMessage is what travels over the per-user pub/sub key.
type StreamMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

func UserChannelKey(userID string) string {
	return fmt.Sprintf("notifications:user:%s", userID)
}

type RedisChannel struct {
	rdb    redis.UniversalClient
	logger *zap.Logger
}

func NewRedisChannel(rdb redis.UniversalClient, logger ...*zap.Logger) *RedisChannel {
	l := zap.L().Named("notification.channel")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.channel")
	}
	return &RedisChannel{rdb: rdb, logger: l}
}

func (c *RedisChannel) Emit(ctx context.Context, userID, event string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode notification payload: %w", err)
	}
	msg, err := json.Marshal(StreamMessage{Event: event, Payload: raw})
	if err != nil {
		return fmt.Errorf("encode stream message: %w", err)
	}
	return c.rdb.Publish(ctx, UserChannelKey(userID), msg).Err()
}

// Subscribe returns messages for userID until ctx is done. The returned
// channel is closed when the subscription ends.
func (c *RedisChannel) Subscribe(ctx context.Context, userID string) (<-chan StreamMessage, error) {
	ps := c.rdb.Subscribe(ctx, UserChannelKey(userID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", UserChannelKey(userID), err)
	}

	out := make(chan StreamMessage)
	go func() {
		defer close(out)
		defer ps.Close()

		in := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				var sm StreamMessage
				if err := json.Unmarshal([]byte(m.Payload), &sm); err != nil {
					c.logger.Warn("drop malformed stream message", zap.String("channel", m.Channel), zap.Error(err))
					continue
				}
				select {
				case out <- sm:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
