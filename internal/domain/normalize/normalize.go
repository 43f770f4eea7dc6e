// Package normalize validates and repairs raw classifier output into the
// canonical recommendation shape.
package normalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/okian/skillsync/internal/domain/model"
)

const (
	// DefaultConfidence is assigned when the classifier does not report a usable score.
	DefaultConfidence = 0.85
	// MaxRoles is the number of roles kept; extra roles are dropped.
	MaxRoles = 5
)

// Normalizer coerces RawOutput into a Recommendation.
type Normalizer struct {
	defaultConfidence float64
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithDefaultConfidence overrides the confidence assigned to heuristic output
// and to remote output without a valid score. Values outside [0,1] are ignored.
func WithDefaultConfidence(c float64) Option {
	return func(n *Normalizer) {
		if validScore(c) {
			n.defaultConfidence = c
		}
	}
}

// New returns a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{defaultConfidence: DefaultConfidence}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the recommendation content of raw. ID, UserID and
// CreatedAt are left zero for the caller to fill in.
func (n *Normalizer) Normalize(raw model.RawOutput) (model.Recommendation, error) {
	rec, err := Content(raw.Fields)
	if err != nil {
		return model.Recommendation{}, err
	}

	rec.Source = raw.Source
	rec.ConfidenceScore = n.defaultConfidence
	if raw.Source == model.SourceRemote {
		if score, ok := number(raw.Fields[model.KeyConfidenceScore]); ok && validScore(score) {
			rec.ConfidenceScore = score
		}
	}
	return rec, nil
}

// Content decodes the list and insights fields shared by classifier output
// and stored payloads. Confidence and source are not touched.
func Content(fields map[string]any) (model.Recommendation, error) {
	var (
		rec model.Recommendation
		err error
	)
	if rec.RecommendedRoles, err = stringList(fields, model.KeyRecommendedRoles); err != nil {
		return model.Recommendation{}, err
	}
	if len(rec.RecommendedRoles) == 0 {
		return model.Recommendation{}, malformed(model.KeyRecommendedRoles, "no roles")
	}
	if len(rec.RecommendedRoles) > MaxRoles {
		rec.RecommendedRoles = rec.RecommendedRoles[:MaxRoles]
	}
	if rec.MissingSkills, err = stringList(fields, model.KeyMissingSkills); err != nil {
		return model.Recommendation{}, err
	}
	if rec.RecommendedCourses, err = stringList(fields, model.KeyRecommendedCourses); err != nil {
		return model.Recommendation{}, err
	}
	if rec.ProjectIdeas, err = stringList(fields, model.KeyProjectIdeas); err != nil {
		return model.Recommendation{}, err
	}

	switch v := fields[model.KeyInsights].(type) {
	case nil:
	case string:
		rec.AIInsights = strings.TrimSpace(v)
	default:
		return model.Recommendation{}, malformed(model.KeyInsights, fmt.Sprintf("unexpected type %T", v))
	}
	return rec, nil
}

// Score validates a stored confidence value.
func Score(v any) (float64, error) {
	score, ok := number(v)
	if !ok || !validScore(score) {
		return 0, malformed(model.KeyConfidenceScore, fmt.Sprintf("invalid value %v", v))
	}
	return score, nil
}

func stringList(fields map[string]any, key string) ([]string, error) {
	var items []string
	switch v := fields[key].(type) {
	case nil:
		return []string{}, nil
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, malformed(key, fmt.Sprintf("element %d has type %T", i, e))
			}
			items = append(items, s)
		}
	default:
		return nil, malformed(key, fmt.Sprintf("unexpected type %T", v))
	}

	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func validScore(f float64) bool {
	return !math.IsNaN(f) && f >= 0 && f <= 1
}
