package response

import (
	"errors"
	"net/http"

	"github.com/petropump/attendance-backend/internal/domain/attendance"
	"github.com/petropump/attendance-backend/internal/domain/auth"
	"github.com/petropump/attendance-backend/internal/domain/report"
	"github.com/petropump/attendance-backend/internal/domain/user"
	"github.com/petropump/attendance-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, auth.ErrSignupDisabled):
		Forbidden(w, "Self registration is disabled")
	case errors.Is(err, auth.ErrProfileMissing):
		Forbidden(w, "No profile exists for this account")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, "You cannot delete your own account", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrLocationUnavailable):
		Error(w, http.StatusBadRequest, "LOCATION_UNAVAILABLE", "Device location is unavailable")
	case errors.Is(err, attendance.ErrInvalidCoordinates):
		Error(w, http.StatusBadRequest, "INVALID_COORDINATES", "Coordinates are out of range")
	case errors.Is(err, attendance.ErrOutsideGeofence):
		Error(w, http.StatusForbidden, "OUTSIDE_GEOFENCE", "You are outside the allowed radius")
	case errors.Is(err, attendance.ErrAlreadyMarked):
		Error(w, http.StatusConflict, "ALREADY_MARKED", "Attendance already marked for today")
	case errors.Is(err, attendance.ErrInvalidDate):
		BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
	case errors.Is(err, attendance.ErrInvalidMonth):
		BadRequest(w, "Month must be between 1 and 12", nil)
	case errors.Is(err, attendance.ErrInvalidYear):
		BadRequest(w, "Invalid year", nil)
	case errors.Is(err, attendance.ErrFutureDate):
		BadRequest(w, "Date is in the future", nil)

	// Report errors
	case errors.Is(err, report.ErrRenderFailed):
		InternalServerError(w, "Failed to render report")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
