package domain

import "errors"

var (
	// ErrNotFound means a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the acting user could not be resolved.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation means a business rule was violated.
	ErrValidation = errors.New("validation failed")
	// ErrConcurrentModification means a versioned write lost a race.
	ErrConcurrentModification = errors.New("concurrent modification")
)

const (
	KindNotFound   = "not_found"
	KindForbidden  = "forbidden"
	KindValidation = "validation"
	KindConflict   = "conflict"
	KindInternal   = "internal"
	KindNone       = ""
)

// Kind maps err to a stable label for transports and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConcurrentModification):
		return KindConflict
	default:
		return KindInternal
	}
}
