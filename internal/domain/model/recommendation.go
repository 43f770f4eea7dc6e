// Package model contains domain models passed between layers.
package model

import "time"

// Keys of the structured classifier output.
const (
	KeyRecommendedRoles   = "recommendedRoles"
	KeyMissingSkills      = "missingSkills"
	KeyRecommendedCourses = "recommendedCourses"
	KeyProjectIdeas       = "projectIdeas"
	KeyInsights           = "insights"
	KeyConfidenceScore    = "confidenceScore"
)

// Source names the classifier strategy that produced an output.
type Source string

const (
	SourceRemote    Source = "remote"
	SourceHeuristic Source = "heuristic"
)

// RawOutput is the untyped classifier result. Fields may be missing or
// carry the wrong shape; the normalizer decides what is acceptable.
type RawOutput struct {
	Fields map[string]any
	Source Source
}

// Recommendation is one immutable generated bundle for a user.
type Recommendation struct {
	ID                 uint64
	UserID             uint64
	RecommendedRoles   []string
	MissingSkills      []string
	RecommendedCourses []string
	ProjectIdeas       []string
	AIInsights         string
	ConfidenceScore    float64
	Source             Source
	CreatedAt          time.Time
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (r Recommendation) Clone() Recommendation {
	r.RecommendedRoles = cloneStrings(r.RecommendedRoles)
	r.MissingSkills = cloneStrings(r.MissingSkills)
	r.RecommendedCourses = cloneStrings(r.RecommendedCourses)
	r.ProjectIdeas = cloneStrings(r.ProjectIdeas)
	return r
}

// Newer reports whether r sorts before o in newest-first order:
// later CreatedAt first, then higher ID.
func (r Recommendation) Newer(o Recommendation) bool {
	if !r.CreatedAt.Equal(o.CreatedAt) {
		return r.CreatedAt.After(o.CreatedAt)
	}
	return r.ID > o.ID
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
