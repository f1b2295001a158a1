package leave

import (
	"context"

	leaveerrors "personnel-management/internal/leave/errors"
	"personnel-management/internal/shared/txmanager"

	"gorm.io/gorm"
)

type BalanceRepository interface {
	Ensure(ctx context.Context, userID string, initialDays int) (*LeaveBalance, error)
	Debit(ctx context.Context, userID string, days int) (*LeaveBalance, error)
	Remaining(ctx context.Context, userID string) (int, error)
}

type balanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) BalanceRepository {
	return &balanceRepository{db: db}
}

const balanceColumns = "id, user_id, total_days, used_days, created_at, updated_at"

// Ensure returns the existing balance or creates one with initialDays.
// The no-op DO UPDATE makes RETURNING yield the row on conflict too.
func (r *balanceRepository) Ensure(ctx context.Context, userID string, initialDays int) (*LeaveBalance, error) {
	query := `
INSERT INTO leave_balances (id, user_id, total_days, used_days, created_at, updated_at)
VALUES (gen_random_uuid(), ?, ?, 0, NOW(), NOW())
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING ` + balanceColumns

	var b LeaveBalance
	if err := txmanager.DB(ctx, r.db).Raw(query, userID, initialDays).Scan(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Debit takes days off the remaining allowance in one conditional UPDATE.
// No matching row means the balance is missing or too small.
func (r *balanceRepository) Debit(ctx context.Context, userID string, days int) (*LeaveBalance, error) {
	if days <= 0 {
		return nil, leaveerrors.ErrInvalidRange
	}

	query := `
UPDATE leave_balances
SET
	total_days = total_days - ?,
	used_days = used_days + ?,
	updated_at = NOW()
WHERE user_id = ? AND total_days >= ?
RETURNING ` + balanceColumns

	var b LeaveBalance
	res := txmanager.DB(ctx, r.db).Raw(query, days, days, userID, days).Scan(&b)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, leaveerrors.ErrInsufficientBalance
	}
	return &b, nil
}

// Remaining is 0 for a user without a balance row; it never creates one.
func (r *balanceRepository) Remaining(ctx context.Context, userID string) (int, error) {
	var total int
	err := txmanager.DB(ctx, r.db).
		Raw(`SELECT total_days FROM leave_balances WHERE user_id = ?`, userID).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
