package leave

import (
	"errors"

	leaveerrors "personnel-management/internal/leave/errors"
	"personnel-management/internal/shared/apperror"

	"gorm.io/gorm"
)

// mapRepositoryError keeps domain errors, turns a missing row into
// ErrLeaveNotFound and wraps anything else as ErrPersistenceFailure.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return apperror.WrapAs(err, leaveerrors.ErrPersistenceFailure)
}
