package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/internal/domain/profile"
	"github.com/okian/skillsync/internal/domain/prompt"
	"github.com/okian/skillsync/pkg/metrics"
)

// Heuristic is the deterministic keyword classifier. It has no state and
// gives identical output for identical prompt text.
type Heuristic struct{}

// NewHeuristic returns the keyword classifier.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// Match returns the domain selected for prompt. Only the profile section of
// the prompt is inspected; the fixed instruction block would otherwise
// match every prompt.
func Match(p string) Domain {
	return match(p).domain
}

func match(p string) rule {
	text := strings.ToLower(prompt.ProfileSection(p))
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r
			}
		}
	}
	return fullStack
}

// Classify returns the bundle of the first matching domain.
func (h *Heuristic) Classify(_ context.Context, p string, _ profile.Profile) model.RawOutput {
	start := time.Now()
	out := match(p).bundle.raw()
	metrics.RecordClassifierLatency(string(model.SourceHeuristic), time.Since(start))
	return out
}

// BundleFor returns a copy of the bundle for d.
func BundleFor(d Domain) Bundle {
	if d == fullStack.domain {
		return fullStack.bundle.clone()
	}
	for _, r := range rules {
		if r.domain == d {
			return r.bundle.clone()
		}
	}
	return fullStack.bundle.clone()
}

func (b Bundle) clone() Bundle {
	return Bundle{
		Roles:         append([]string(nil), b.Roles...),
		MissingSkills: append([]string(nil), b.MissingSkills...),
		Courses:       append([]string(nil), b.Courses...),
		Projects:      append([]string(nil), b.Projects...),
		Insights:      b.Insights,
	}
}

func (b Bundle) raw() model.RawOutput {
	c := b.clone()
	return model.RawOutput{
		Source: model.SourceHeuristic,
		Fields: map[string]any{
			model.KeyRecommendedRoles:   c.Roles,
			model.KeyMissingSkills:      c.MissingSkills,
			model.KeyRecommendedCourses: c.Courses,
			model.KeyProjectIdeas:       c.Projects,
			model.KeyInsights:           c.Insights,
		},
	}
}
