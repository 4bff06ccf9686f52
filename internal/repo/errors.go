package repo

import "errors"

var (
	// ErrNotFound is returned when no row matches the requested identifier.
	ErrNotFound = errors.New("not found")
	// ErrDuplicatedValueUnique is returned when a write would break a uniqueness rule.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	// ErrInvalidQuantityChange is returned when an adjustment would make stock negative.
	ErrInvalidQuantityChange = errors.New("quantity cannot be negative")
)

const (
	defaultRecentLimit = 10
	defaultLimit       = 100
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func recentLimit(limit int) int {
	if limit <= 0 {
		return defaultRecentLimit
	}
	return limit
}
