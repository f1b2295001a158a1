package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,max=30"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type DecideLeaveRequest struct {
	Status       string  `json:"status" binding:"required"`
	RejectReason *string `json:"reject_reason"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	TotalDays    int     `json:"total_days"`
	Status       string  `json:"status"`
	RejectReason *string `json:"reject_reason,omitempty"`
	DecidedAt    *string `json:"decided_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type BalanceResponse struct {
	UserID        string `json:"user_id"`
	RemainingDays int    `json:"remaining_days"`
}
