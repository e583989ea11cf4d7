package tcp

import "errors"

// Construction errors (spec.md §4.F).
var (
	ErrInvalidPort     = errors.New("port outside of range 1-65535")
	ErrInvalidInterval = errors.New("interval must be at least 0.1 seconds")
)

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPort) || errors.Is(err, ErrInvalidInterval)
}
