// Package classifier turns a career prompt into a raw structured
// recommendation, either through a remote language model or through a
// deterministic keyword heuristic.
package classifier

import (
	"context"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/internal/domain/profile"
	"github.com/okian/skillsync/pkg/logger"
	"github.com/okian/skillsync/pkg/metrics"
)

// Classifier produces a raw recommendation for a prompt. Implementations
// never fail; degraded answers are still answers.
type Classifier interface {
	Classify(ctx context.Context, prompt string, p profile.Profile) model.RawOutput
}

// Caller is a strategy that may fail, such as the remote provider.
type Caller interface {
	Call(ctx context.Context, prompt string) (model.RawOutput, error)
}

// Selector routes to the remote strategy when one is configured and falls
// back to the heuristic on any provider failure.
type Selector struct {
	remote    Caller
	heuristic *Heuristic
	logger    logger.Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Selector) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCaller installs a remote strategy directly, bypassing Settings.
func WithCaller(c Caller) Option {
	return func(s *Selector) {
		s.remote = c
	}
}

// New builds a Selector. The remote strategy is enabled only when settings
// carry a usable credential; any construction failure leaves the heuristic
// as the only strategy.
func New(ctx context.Context, settings Settings, opts ...Option) *Selector {
	s := &Selector{
		heuristic: NewHeuristic(),
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.remote != nil {
		return s
	}

	if !HasCredential(settings.APIKey) {
		s.logger.Info(ctx, "no provider credential configured, using heuristic classifier")
		return s
	}
	remote, err := NewRemote(settings, WithRemoteLogger(s.logger))
	if err != nil {
		s.logger.Warn(ctx, "remote classifier disabled", logger.Error(err))
		return s
	}
	s.remote = remote
	s.logger.Info(ctx, "remote classifier enabled",
		logger.String("model", settings.Model),
		logger.Duration("timeout", settings.Timeout),
	)
	return s
}

// RemoteEnabled reports whether a remote strategy is installed.
func (s *Selector) RemoteEnabled() bool {
	return s.remote != nil
}

// Classify tries the remote strategy once, then the heuristic.
func (s *Selector) Classify(ctx context.Context, prompt string, p profile.Profile) model.RawOutput {
	if s.remote != nil {
		out, err := s.remote.Call(ctx, prompt)
		if err == nil {
			return out
		}
		reason := Reason(err)
		metrics.RecordClassifierFallback(reason)
		s.logger.Warn(ctx, "remote classifier failed, falling back to heuristic",
			logger.String("reason", reason),
			logger.Error(err),
		)
	}
	return s.heuristic.Classify(ctx, prompt, p)
}
