package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"personnel-management/internal/events"
	"personnel-management/internal/leave"
	"personnel-management/internal/messaging/kafka/consumer"
	notificationerrors "personnel-management/internal/notification/errors"
	"personnel-management/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader hands out queued messages and cancels the run once drained.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.queue[0]
	r.queue = r.queue[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func message(t *testing.T, offset int64, eventType string, v any, headers ...kafkago.Header) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(v)
	assert.NoError(t, err)
	return kafkago.Message{
		Offset:  offset,
		Value:   body,
		Headers: append([]kafkago.Header{{Key: "event_type", Value: []byte(eventType)}}, headers...),
	}
}

func runUntilDrained(t *testing.T, reader *fakeReader, run func(ctx context.Context)) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	reader.cancel = cancel

	done := make(chan struct{})
	go func() {
		defer close(done)
		run(ctx)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		cancel()
		t.Fatal("consumer did not stop")
	}
}

func TestConsumeLeaveDecided(t *testing.T) {
	decided := events.LeaveDecidedEvent{
		EventType: events.LeaveDecidedEventType,
		RequestID: "lr-1",
		UserID:    "user-1",
		Status:    "Approved",
	}

	reader := &fakeReader{queue: []kafkago.Message{
		message(t, 1, events.LeaveDecidedEventType, decided, kafkago.Header{Key: "request_id", Value: []byte("req-7")}),
		{Offset: 2, Value: []byte("{not json"), Headers: []kafkago.Header{{Key: "event_type", Value: []byte(events.LeaveDecidedEventType)}}},
		message(t, 3, "something_else", map[string]string{}),
		message(t, 4, events.LeaveDecidedEventType, decided),
		message(t, 5, events.LeaveDecidedEventType, decided),
	}}

	var (
		mu    sync.Mutex
		calls int
		rids  []string
	)
	handler := func(ctx context.Context, ev events.LeaveDecidedEvent) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		rids = append(rids, contextutil.GetRequestID(ctx))
		switch calls {
		case 2:
			return notificationerrors.ErrUnknownDecision
		case 3:
			return errors.New("db down")
		}
		assert.Equal(t, "user-1", ev.UserID)
		return nil
	}

	runUntilDrained(t, reader, func(ctx context.Context) {
		consumer.ConsumeLeaveDecided(ctx, reader, handler, zap.NewNop())
	})

	assert.Equal(t, 3, calls)
	assert.Equal(t, "req-7", rids[0])
	assert.Equal(t, []int64{1, 2, 3, 4}, reader.committed)
}

type fakeBalances struct {
	mu    sync.Mutex
	users []string
	err   error
}

func (f *fakeBalances) EnsureBalance(ctx context.Context, userID string) (leave.BalanceResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
	if f.err != nil {
		return leave.BalanceResponse{}, f.err
	}
	return leave.BalanceResponse{UserID: userID, RemainingDays: 12}, nil
}

func TestConsumeUserLifecycle(t *testing.T) {
	t.Run("registered users get a balance", func(t *testing.T) {
		reader := &fakeReader{queue: []kafkago.Message{
			message(t, 10, events.UserRegisteredEventType, events.UserRegisteredEvent{EventType: events.UserRegisteredEventType, UserID: "u-1"}),
			message(t, 11, "user_deactivated", map[string]string{"user_id": "u-2"}),
			message(t, 12, events.UserRegisteredEventType, map[string]string{}),
		}}
		balances := &fakeBalances{}

		runUntilDrained(t, reader, func(ctx context.Context) {
			consumer.ConsumeUserLifecycle(ctx, reader, balances, zap.NewNop())
		})

		assert.Equal(t, []string{"u-1"}, balances.users)
		assert.Equal(t, []int64{10, 11, 12}, reader.committed)
	})

	t.Run("storage failure leaves offset uncommitted", func(t *testing.T) {
		reader := &fakeReader{queue: []kafkago.Message{
			message(t, 20, events.UserRegisteredEventType, events.UserRegisteredEvent{UserID: "u-1"}),
		}}
		balances := &fakeBalances{err: errors.New("db down")}

		runUntilDrained(t, reader, func(ctx context.Context) {
			consumer.ConsumeUserLifecycle(ctx, reader, balances, zap.NewNop())
		})

		assert.Equal(t, []string{"u-1"}, balances.users)
		assert.Empty(t, reader.committed)
	})

	t.Run("event type falls back to payload", func(t *testing.T) {
		body, _ := json.Marshal(events.UserRegisteredEvent{EventType: events.UserRegisteredEventType, UserID: "u-9"})
		reader := &fakeReader{queue: []kafkago.Message{{Offset: 30, Value: body}}}
		balances := &fakeBalances{}

		runUntilDrained(t, reader, func(ctx context.Context) {
			consumer.ConsumeUserLifecycle(ctx, reader, balances, zap.NewNop())
		})

		assert.Equal(t, []string{"u-9"}, balances.users)
	})
}
