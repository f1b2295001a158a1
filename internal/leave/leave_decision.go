package leave

import (
	"strings"

	leaveerrors "personnel-management/internal/leave/errors"
)

// Decision is the outcome applied to a pending request. Build it with
// Approve, Reject or ParseDecision; the zero value is not a valid decision.
type Decision struct {
	status string
	reason string
}

func Approve() Decision {
	return Decision{status: StatusApproved}
}

func Reject(reason string) Decision {
	return Decision{status: StatusRejected, reason: strings.TrimSpace(reason)}
}

// ParseDecision reads the wire form {status, reject_reason}. It rejects
// only statuses that can never be a decision.
func ParseDecision(status string, rejectReason *string) (Decision, error) {
	reason := ""
	if rejectReason != nil {
		reason = strings.TrimSpace(*rejectReason)
	}

	switch {
	case strings.EqualFold(status, StatusApproved):
		if reason != "" {
			return Decision{}, leaveerrors.ErrInvalidDecision
		}
		return Approve(), nil
	case strings.EqualFold(status, StatusRejected):
		// A missing reason is reported by Decide once the request is known
		// to be pending.
		return Reject(reason), nil
	default:
		return Decision{}, leaveerrors.ErrInvalidDecision
	}
}

func (d Decision) Status() string { return d.status }

func (d Decision) Reason() string { return d.reason }

func (d Decision) IsApproval() bool { return d.status == StatusApproved }

func (d Decision) validate() error {
	switch d.status {
	case StatusApproved:
		return nil
	case StatusRejected:
		if d.reason == "" {
			return leaveerrors.ErrMissingReason
		}
		return nil
	default:
		return leaveerrors.ErrInvalidDecision
	}
}

// rejectReason is what Finalize stores; approvals carry none.
func (d Decision) rejectReason() *string {
	if d.status != StatusRejected {
		return nil
	}
	r := d.reason
	return &r
}
