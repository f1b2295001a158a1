package leave

import (
	"context"
	"time"

	"personnel-management/internal/events"
	"personnel-management/internal/messaging/kafka"
	"personnel-management/internal/messaging/kafka/producer"
)

type EventPublisher interface {
	PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error
}

func NewLeaveDecidedEvent(r LeaveRequest) events.LeaveDecidedEvent {
	ev := events.LeaveDecidedEvent{
		EventType:  events.LeaveDecidedEventType,
		RequestID:  r.ID.String(),
		UserID:     r.UserID,
		LeaveType:  r.LeaveType,
		StartDate:  r.StartDate.Format(DateLayout),
		EndDate:    r.EndDate.Format(DateLayout),
		Status:     r.Status,
		OccurredAt: time.Now().UTC(),
	}
	if r.RejectReason != nil {
		ev.RejectReason = *r.RejectReason
	}
	if r.DecidedAt != nil {
		ev.OccurredAt = r.DecidedAt.UTC()
	}
	return ev
}

type noopEventPublisher struct{}

func NewNoopEventPublisher() EventPublisher {
	return noopEventPublisher{}
}

func (noopEventPublisher) PublishLeaveDecided(context.Context, events.LeaveDecidedEvent) error {
	return nil
}

// kafkaEventPublisher writes straight to the broker, skipping the outbox.
type kafkaEventPublisher struct {
	publisher *producer.Publisher
}

func NewKafkaEventPublisher(writer producer.MessageWriter) EventPublisher {
	return &kafkaEventPublisher{publisher: producer.NewPublisher(writer)}
}

func (p *kafkaEventPublisher) PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error {
	outboxEvent, err := newLeaveDecidedOutboxEvent(ctx, event)
	if err != nil {
		return err
	}
	return p.publisher.Publish(ctx, outboxEvent)
}

// outboxEventPublisher records the event for the outbox worker to relay.
// The row is written after the decision has committed, in its own statement,
// so it is not atomic with the decision: a crash or storage error between the
// two loses the event. Relay from the row onward is retried by the worker.
type outboxEventPublisher struct {
	repo kafka.OutboxRepository
}

func NewOutboxEventPublisher(repo kafka.OutboxRepository) EventPublisher {
	return &outboxEventPublisher{repo: repo}
}

func (p *outboxEventPublisher) PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error {
	outboxEvent, err := newLeaveDecidedOutboxEvent(ctx, event)
	if err != nil {
		return err
	}
	return p.repo.Create(ctx, outboxEvent)
}

func newLeaveDecidedOutboxEvent(ctx context.Context, event events.LeaveDecidedEvent) (kafka.OutboxEvent, error) {
	return kafka.NewOutboxEvent(
		ctx,
		"leave_request",
		event.RequestID,
		event.EventType,
		events.LeaveDecidedTopic,
		event,
	)
}
