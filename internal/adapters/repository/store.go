// Package repository persists generated recommendations as an append-only
// history per user.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/pkg/metrics"
)

// Store provides append and read access to recommendation history.
// Records are never updated or deleted.
type Store interface {
	// Append stores rec for userID atomically and returns the assigned ID.
	// rec.ID and rec.UserID are ignored. Returns ErrUserNotFound when the
	// user does not exist.
	Append(ctx context.Context, userID uint64, rec model.Recommendation) (uint64, error)

	// Latest returns the newest record for userID, ordered by CreatedAt then ID.
	// Returns ErrNoRecommendations when the user has none.
	Latest(ctx context.Context, userID uint64) (model.Recommendation, error)

	// History returns every record for userID, newest first. An empty
	// history is not an error.
	History(ctx context.Context, userID uint64) ([]model.Recommendation, error)
}

// Store operation names used for metrics.
const (
	opAppend  = "append"
	opLatest  = "latest"
	opHistory = "history"
)

func observe(op string, start time.Time, err error) {
	if errors.Is(err, ErrNoRecommendations) {
		err = nil
	}
	metrics.RecordStoreOperation(op, time.Since(start), err)
}
