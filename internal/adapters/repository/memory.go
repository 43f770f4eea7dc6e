package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/internal/domain/profile"
)

// MemoryStore keeps history in process memory. It is safe for concurrent use.
type MemoryStore struct {
	users profile.Directory

	mu     sync.RWMutex
	nextID uint64
	byUser map[uint64][]model.Recommendation
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store that validates users against users.
func NewMemoryStore(users profile.Directory) *MemoryStore {
	return &MemoryStore{
		users:  users,
		byUser: make(map[uint64][]model.Recommendation),
	}
}

func (s *MemoryStore) Append(ctx context.Context, userID uint64, rec model.Recommendation) (id uint64, err error) {
	defer func(start time.Time) { observe(opAppend, start, err) }(time.Now())

	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("lookup user %d: %w", userID, err)
	}
	if !ok {
		return 0, ErrUserNotFound
	}

	rec = rec.Clone()
	rec.UserID = userID

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	rec.ID = s.nextID
	s.byUser[userID] = append(s.byUser[userID], rec)
	return rec.ID, nil
}

func (s *MemoryStore) Latest(_ context.Context, userID uint64) (rec model.Recommendation, err error) {
	defer func(start time.Time) { observe(opLatest, start, err) }(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.byUser[userID]
	if len(recs) == 0 {
		return model.Recommendation{}, ErrNoRecommendations
	}
	latest := recs[0]
	for _, r := range recs[1:] {
		if r.Newer(latest) {
			latest = r
		}
	}
	return latest.Clone(), nil
}

func (s *MemoryStore) History(_ context.Context, userID uint64) (out []model.Recommendation, err error) {
	defer func(start time.Time) { observe(opHistory, start, err) }(time.Now())

	s.mu.RLock()
	recs := s.byUser[userID]
	out = make([]model.Recommendation, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Newer(out[j]) })
	return out, nil
}
