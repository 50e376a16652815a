package ledger

import "errors"

var (
	// ErrInvalidPeriod is returned when a period starts after it ends or has an
	// unparseable bound.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrInvalidMonth is returned for a month outside 1..12 or a non-positive year.
	ErrInvalidMonth = errors.New("invalid month")
	// ErrStoreUnavailable wraps every failure reported by the Store.
	ErrStoreUnavailable = errors.New("store unavailable")
)
