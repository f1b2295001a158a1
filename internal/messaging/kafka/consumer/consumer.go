package consumer

import (
	"context"
	"encoding/json"

	"personnel-management/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumers use.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// outcome tells the fetch loop what to do with a handled message.
type outcome int

const (
	// commit marks the message done, including poison messages.
	commit outcome = iota
	// retry leaves the offset uncommitted so a restart or rebalance
	// delivers the message again.
	retry
)

type handleFunc func(ctx context.Context, msg kafkago.Message, log *zap.Logger) outcome

func consume(ctx context.Context, reader MessageReader, log *zap.Logger, handle handleFunc) {
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		msgCtx := messageContext(ctx, msg)
		msgLog := log.With(
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		)
		if rid := contextutil.GetRequestID(msgCtx); rid != "" {
			msgLog = msgLog.With(zap.String("request_id", rid))
		}

		if handle(msgCtx, msg, msgLog) == retry {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			msgLog.Error("commit message failed", zap.Error(err))
		}
	}
}

// messageContext carries the producer's request id into handler logs.
func messageContext(ctx context.Context, msg kafkago.Message) context.Context {
	for _, h := range msg.Headers {
		if h.Key == "request_id" && len(h.Value) > 0 {
			return contextutil.WithRequestID(ctx, string(h.Value))
		}
	}
	return ctx
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

// eventType prefers the header and falls back to the payload field.
func eventType(msg kafkago.Message) string {
	if v := headerValue(msg, "event_type"); v != "" {
		return v
	}
	var probe struct {
		EventType string `json:"event_type"`
	}
	_ = json.Unmarshal(msg.Value, &probe)
	return probe.EventType
}
