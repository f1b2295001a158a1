package notification

import (
	"context"

	"personnel-management/internal/shared/txmanager"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) (bool, error)
	FindByID(ctx context.Context, id string) (*Notification, error)
	FindAllByUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create inserts n and reports true. If the user already has a notification
// with the same type and non-empty link, n is overwritten with that row and
// Create reports false.
func (r *repository) Create(ctx context.Context, n *Notification) (bool, error) {
	db := txmanager.DB(ctx, r.db)

	var stored Notification
	res := db.Raw(`
INSERT INTO notifications (id, user_id, type, message, link, is_read, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, type, link) WHERE link <> '' DO NOTHING
RETURNING id, user_id, type, message, link, is_read, created_at`,
		n.ID, n.UserID, n.Type, n.Message, n.Link, n.IsRead, n.CreatedAt,
	).Scan(&stored)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		*n = stored
		return true, nil
	}

	err := db.Raw(`
SELECT id, user_id, type, message, link, is_read, created_at
FROM notifications
WHERE user_id = ? AND type = ? AND link = ?`,
		n.UserID, n.Type, n.Link,
	).Scan(&stored).Error
	if err != nil {
		return false, err
	}
	if stored.ID == uuid.Nil {
		return false, gorm.ErrRecordNotFound
	}

	*n = stored
	return false, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	if err := txmanager.DB(ctx, r.db).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repository) FindAllByUser(ctx context.Context, userID string) ([]Notification, error) {
	var list []Notification
	err := txmanager.DB(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// MarkRead only touches is_read. Marking an already read notification
// still matches the row, so it succeeds unchanged.
func (r *repository) MarkRead(ctx context.Context, id, userID string) (*Notification, error) {
	var n Notification
	res := txmanager.DB(ctx, r.db).Raw(`
UPDATE notifications
SET is_read = TRUE
WHERE id = ? AND user_id = ?
RETURNING id, user_id, type, message, link, is_read, created_at`, id, userID).Scan(&n)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}
