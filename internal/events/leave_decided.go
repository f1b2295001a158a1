package events

import "time"

const (
	LeaveDecidedTopic     = "hr.leave.decided.v1"
	LeaveDecidedEventType = "leave_decided"
)

type LeaveDecidedEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id"`
	UserID       string    `json:"user_id"`
	LeaveType    string    `json:"leave_type"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Status       string    `json:"status"`
	RejectReason string    `json:"reject_reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
