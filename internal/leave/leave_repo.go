package leave

import (
	"context"
	"time"

	leaveerrors "personnel-management/internal/leave/errors"
	"personnel-management/internal/shared/txmanager"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, r *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	Finalize(ctx context.Context, id, status string, rejectReason *string) (*LeaveRequest, error)
	FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	if req.EndDate.Before(req.StartDate) {
		return leaveerrors.ErrInvalidRange
	}
	req.Status = StatusPending
	return txmanager.DB(ctx, r.db).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	if err := txmanager.DB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDForUpdate must run inside a transaction to hold the row lock.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := txmanager.DB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Finalize moves a Pending request to a terminal status. The status guard
// in the WHERE clause makes a second finalize a no-op reported as
// ErrAlreadyProcessed.
func (r *repository) Finalize(ctx context.Context, id, status string, rejectReason *string) (*LeaveRequest, error) {
	switch status {
	case StatusApproved:
		rejectReason = nil
	case StatusRejected:
		if rejectReason == nil || *rejectReason == "" {
			return nil, leaveerrors.ErrInvalidTransition
		}
	default:
		return nil, leaveerrors.ErrInvalidTransition
	}

	db := txmanager.DB(ctx, r.db)
	now := time.Now().UTC()

	var out LeaveRequest
	res := db.Raw(`
UPDATE leave_requests
SET
	status = ?,
	reject_reason = ?,
	decided_at = ?,
	updated_at = ?
WHERE id = ? AND status = ?
RETURNING *`, status, rejectReason, now, now, id, StatusPending).Scan(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return &out, nil
	}

	var count int64
	if err := db.Model(&LeaveRequest{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	return nil, leaveerrors.ErrAlreadyProcessed
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := txmanager.DB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}
