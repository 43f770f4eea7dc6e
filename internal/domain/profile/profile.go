// Package profile defines the read-only view of a user's career profile and
// the collaborator contracts used to look it up.
package profile

import (
	"context"
	"strings"
)

// Profile holds the attributes that drive recommendation generation.
// Empty strings and a nil YearsOfExperience mean "not specified".
type Profile struct {
	EducationLevel    string
	CareerGoal        string
	Interests         string
	YearsOfExperience *int
	Skills            []string
}

// SkillNames returns the trimmed, de-duplicated skill names in their original
// order. Duplicates are detected case-insensitively; the first spelling wins.
func (p Profile) SkillNames() []string {
	seen := make(map[string]struct{}, len(p.Skills))
	out := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		name := strings.TrimSpace(s)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// Reader loads a user's stored profile.
type Reader interface {
	// FindProfileByUserID returns the profile and true, or false when the
	// user has no profile yet.
	FindProfileByUserID(ctx context.Context, userID uint64) (Profile, bool, error)
}

// Directory answers whether a user account exists.
type Directory interface {
	UserExists(ctx context.Context, userID uint64) (bool, error)
}
