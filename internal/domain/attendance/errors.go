package attendance

import "errors"

// Attendance domain errors
var (
	// Marking errors
	ErrLocationUnavailable = errors.New("device location is unavailable")
	ErrInvalidCoordinates  = errors.New("coordinates are out of range")
	ErrOutsideGeofence     = errors.New("you are outside the allowed radius")
	ErrAlreadyMarked       = errors.New("attendance already marked for this day")

	// Query errors
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
	ErrInvalidYear  = errors.New("year is out of range")
	ErrFutureDate   = errors.New("date is in the future")
)
