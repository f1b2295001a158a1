package notification

import (
	"context"

	"personnel-management/internal/events"
	notificationerrors "personnel-management/internal/notification/errors"
	"personnel-management/internal/shared/i18n"
)

const (
	leaveStatusApproved = "Approved"
	leaveStatusRejected = "Rejected"
)

// LeaveDecisionNotifier turns a leave decision into a stored notification
// for the requester. It serves both as the inline leave event publisher
// and as the handler behind the leave-decided consumer.
type LeaveDecisionNotifier struct {
	service Service
}

func NewLeaveDecisionNotifier(service Service) *LeaveDecisionNotifier {
	return &LeaveDecisionNotifier{service: service}
}

func (n *LeaveDecisionNotifier) PublishLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) error {
	_, err := n.HandleLeaveDecided(ctx, event)
	return err
}

func (n *LeaveDecisionNotifier) HandleLeaveDecided(ctx context.Context, event events.LeaveDecidedEvent) (NotificationResponse, error) {
	data := map[string]any{
		"LeaveType": event.LeaveType,
		"StartDate": event.StartDate,
		"EndDate":   event.EndDate,
		"Reason":    event.RejectReason,
	}

	var notificationType, message string
	switch event.Status {
	case leaveStatusApproved:
		notificationType = TypeLeaveApproved
		message = i18n.T(ctx, "leave.approved", data)
	case leaveStatusRejected:
		notificationType = TypeLeaveRejected
		message = i18n.T(ctx, "leave.rejected", data)
	default:
		return NotificationResponse{}, notificationerrors.ErrUnknownDecision
	}

	return n.service.Notify(ctx, event.UserID, notificationType, message, LeaveLink(event.RequestID))
}

func LeaveLink(requestID string) string {
	return "/leaves/" + requestID
}
