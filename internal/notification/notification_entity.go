package notification

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeLeaveApproved = "LEAVE_APPROVED"
	TypeLeaveRejected = "LEAVE_REJECTED"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:varchar(64);not null;index:idx_notifications_user_created"`
	Type      string    `gorm:"type:varchar(50);not null"`
	Message   string    `gorm:"type:text;not null"`
	Link      string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_notifications_user_created"`
}

func (Notification) TableName() string { return "notifications" }
