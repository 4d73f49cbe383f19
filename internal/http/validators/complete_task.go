package validators

import (
	dto "taskgroups.com/taskgroups/internal/data_models"
	apperrors "taskgroups.com/taskgroups/internal/errors"
)

// ValidateCompleteTaskRequest enforces the boundary contract for the
// complete toggle: the field must be present and a JSON boolean. This check
// runs before any lookup, so a bad payload is a 400 even for a missing task.
func ValidateCompleteTaskRequest(r *dto.CompleteTaskRequest) error {
	if r.Completed == nil {
		return apperrors.ErrCompletedBoolean
	}
	return nil
}
