package service

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = errors.New("not found")

// Entities reported by NotFoundError.
const (
	EntityUser           = "user"
	EntityProfile        = "profile"
	EntityRecommendation = "recommendation"
)

// NotFoundError reports a missing user, profile or recommendation.
type NotFoundError struct {
	Entity string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) Unwrap() error { return e.Err }

func notFound(entity string, cause error) error {
	return &NotFoundError{Entity: entity, Err: cause}
}
