// Package profiles provides user directory and profile reader
// implementations backed by process memory or a SQL database.
package profiles

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/skillsync/internal/domain/profile"
)

// ErrInvalidUserID is returned when seeding a record without a user id.
var ErrInvalidUserID = errors.New("user id must be positive")

// Record seeds one user and, optionally, the user's profile.
type Record struct {
	UserID  uint64
	Profile *profile.Profile
}

// Memory is an in-process directory and profile reader.
type Memory struct {
	mu       sync.RWMutex
	users    map[uint64]struct{}
	profiles map[uint64]profile.Profile
}

var (
	_ profile.Reader    = (*Memory)(nil)
	_ profile.Directory = (*Memory)(nil)
)

// NewMemory returns a directory seeded with records.
func NewMemory(records ...Record) (*Memory, error) {
	m := &Memory{
		users:    make(map[uint64]struct{}),
		profiles: make(map[uint64]profile.Profile),
	}
	for _, r := range records {
		if err := m.Put(context.Background(), r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Put registers the user and replaces the profile when one is given.
func (m *Memory) Put(_ context.Context, r Record) error {
	if r.UserID == 0 {
		return ErrInvalidUserID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[r.UserID] = struct{}{}
	if r.Profile != nil {
		m.profiles[r.UserID] = clone(*r.Profile)
	}
	return nil
}

func (m *Memory) UserExists(_ context.Context, userID uint64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[userID]
	return ok, nil
}

func (m *Memory) FindProfileByUserID(_ context.Context, userID uint64) (profile.Profile, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return profile.Profile{}, false, nil
	}
	return clone(p), true, nil
}

func clone(p profile.Profile) profile.Profile {
	p.Skills = append([]string(nil), p.Skills...)
	if p.YearsOfExperience != nil {
		y := *p.YearsOfExperience
		p.YearsOfExperience = &y
	}
	return p
}
