package cping

import "errors"

// Construction and validation errors.
var (
	// ErrInvalidInterval indicates an interval below the allowed minimum.
	ErrInvalidInterval = errors.New("interval must be at least 0.1 seconds")

	// ErrInvalidAddress indicates an empty or otherwise unusable host address.
	ErrInvalidAddress = errors.New("address must be a non-empty string")
)

// IsValidationError reports whether err is one of the construction-time
// validation errors above.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInterval),
		errors.Is(err, ErrInvalidAddress):
		return true
	default:
		return false
	}
}
