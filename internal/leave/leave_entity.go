package leave

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"

	DateLayout = "2006-01-02"
)

// LeaveBalance holds the remaining allowance in TotalDays. UsedDays only
// counts what approvals have taken so far.
type LeaveBalance struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_leave_balances_user"`
	TotalDays int       `gorm:"type:int;not null"`
	UsedDays  int       `gorm:"type:int;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveBalance) TableName() string { return "leave_balances" }

type LeaveRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       string    `gorm:"type:varchar(64);not null;index:idx_leave_requests_user_created"`
	LeaveType    string    `gorm:"type:varchar(30);not null"`
	StartDate    time.Time `gorm:"type:date;not null"`
	EndDate      time.Time `gorm:"type:date;not null"`
	Status       string    `gorm:"type:varchar(20);not null"`
	RejectReason *string   `gorm:"type:text"`
	DecidedAt    *time.Time
	CreatedAt    time.Time `gorm:"index:idx_leave_requests_user_created"`
	UpdatedAt    time.Time
}

func (LeaveRequest) TableName() string { return "leave_requests" }

func (r LeaveRequest) Days() int {
	return InclusiveDays(r.StartDate, r.EndDate)
}

func (r LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// InclusiveDays counts both ends: 2024-01-01..2024-01-05 is 5 days.
func InclusiveDays(start, end time.Time) int {
	hours := end.Sub(start).Hours()
	return int(math.Ceil(hours/24)) + 1
}
