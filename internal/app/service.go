// Package service orchestrates recommendation generation: profile lookup,
// prompt rendering, classification, normalization and persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/skillsync/internal/adapters/repository"
	"github.com/okian/skillsync/internal/domain/classifier"
	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/internal/domain/normalize"
	"github.com/okian/skillsync/internal/domain/profile"
	"github.com/okian/skillsync/internal/domain/prompt"
	"github.com/okian/skillsync/pkg/logger"
	"github.com/okian/skillsync/pkg/metrics"
)

// Generation outcomes recorded in metrics.
const (
	outcomeOK        = "ok"
	outcomeNotFound  = "not_found"
	outcomeMalformed = "malformed"
	outcomeError     = "error"
	sourceNone       = "none"
)

// Service implements the recommendation API.
type Service struct {
	users      profile.Directory
	profiles   profile.Reader
	classifier classifier.Classifier
	store      repository.Store
	normalizer *normalize.Normalizer

	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock used to stamp new recommendations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// New constructs a Service over its collaborators.
func New(users profile.Directory, profiles profile.Reader, cls classifier.Classifier, store repository.Store, opts ...Option) *Service {
	s := &Service{
		users:      users,
		profiles:   profiles,
		classifier: cls,
		store:      store,
		normalizer: normalize.New(),
		now:        time.Now,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces, stores and returns a new recommendation for userID.
// The user check precedes the profile check.
func (s *Service) Generate(ctx context.Context, userID uint64) (rec model.Recommendation, err error) {
	start := time.Now()
	source, outcome := sourceNone, outcomeOK
	defer func() {
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			outcome = outcomeNotFound
		case errors.Is(err, normalize.ErrMalformedResponse):
			outcome = outcomeMalformed
		default:
			outcome = outcomeError
		}
		metrics.RecordGeneration(source, outcome, time.Since(start))
	}()

	if err := s.requireUser(ctx, userID); err != nil {
		return model.Recommendation{}, err
	}
	p, ok, err := s.profiles.FindProfileByUserID(ctx, userID)
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("load profile for user %d: %w", userID, err)
	}
	if !ok {
		return model.Recommendation{}, notFound(EntityProfile, nil)
	}

	raw := s.classifier.Classify(ctx, prompt.Build(p), p)
	source = string(raw.Source)

	rec, err = s.normalizer.Normalize(raw)
	if err != nil {
		metrics.RecordMalformedResponse()
		s.logger.Error(ctx, "classifier returned malformed recommendation",
			logger.Uint64("user_id", userID),
			logger.String("source", source),
			logger.Error(err),
		)
		return model.Recommendation{}, err
	}

	rec.UserID = userID
	rec.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	id, err := s.store.Append(ctx, userID, rec)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.Recommendation{}, notFound(EntityUser, err)
	}
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("store recommendation: %w", err)
	}
	rec.ID = id

	s.logger.Info(ctx, "recommendation generated",
		logger.Uint64("user_id", userID),
		logger.Uint64("id", id),
		logger.String("source", source),
		logger.Float64("confidence", rec.ConfidenceScore),
	)
	return rec, nil
}

// Latest returns the newest stored recommendation for userID. Unknown users
// and users without history both report a missing recommendation.
func (s *Service) Latest(ctx context.Context, userID uint64) (model.Recommendation, error) {
	rec, err := s.store.Latest(ctx, userID)
	if errors.Is(err, repository.ErrNoRecommendations) {
		return model.Recommendation{}, notFound(EntityRecommendation, err)
	}
	if err != nil {
		return model.Recommendation{}, fmt.Errorf("load latest recommendation: %w", err)
	}
	return rec, nil
}

// History returns every stored recommendation for userID, newest first. An
// unknown user has an empty history.
func (s *Service) History(ctx context.Context, userID uint64) ([]model.Recommendation, error) {
	recs, err := s.store.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recommendation history: %w", err)
	}
	return recs, nil
}

func (s *Service) requireUser(ctx context.Context, userID uint64) error {
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user %d: %w", userID, err)
	}
	if !ok {
		return notFound(EntityUser, nil)
	}
	return nil
}
