package notification

import (
	"errors"

	notificationerrors "personnel-management/internal/notification/errors"
	"personnel-management/internal/shared/apperror"

	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notificationerrors.ErrNotificationNotFound
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return apperror.WrapAs(err, notificationerrors.ErrPersistenceFailure)
}
