package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrNoRecommendations = errors.New("no recommendations found")
	ErrCorruptRecord     = errors.New("corrupt recommendation record")
	ErrUnknownDriver     = errors.New("unknown storage driver")
)
