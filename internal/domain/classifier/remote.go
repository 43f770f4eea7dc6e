package classifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/skillsync/internal/domain/model"
	"github.com/okian/skillsync/pkg/logger"
	"github.com/okian/skillsync/pkg/metrics"
)

const (
	// PlaceholderAPIKey ships in sample configs and never enables the remote strategy.
	PlaceholderAPIKey = "your-api-key-here"

	maxResponseBytes = 1 << 20
	breakerName      = "ai-provider"
)

// HasCredential reports whether key is usable for the remote strategy.
func HasCredential(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

// Settings configures the remote provider. All values are passed in at
// construction; nothing is read from the environment.
type Settings struct {
	APIKey      string
	Endpoint    string
	Model       string
	Temperature float64
	MaxTokens   int
	// Timeout bounds the whole provider call, including reading the body.
	Timeout time.Duration
	// BreakerFailures consecutive failures open the breaker for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

func (s Settings) validate() error {
	if !HasCredential(s.APIKey) {
		return ErrNoCredential
	}
	u, err := url.Parse(s.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: endpoint %q", ErrInvalidSettings, s.Endpoint)
	}
	switch {
	case strings.TrimSpace(s.Model) == "":
		return fmt.Errorf("%w: empty model", ErrInvalidSettings)
	case s.MaxTokens <= 0:
		return fmt.Errorf("%w: max tokens must be positive", ErrInvalidSettings)
	case s.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidSettings)
	}
	return nil
}

// chat completions wire types.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Remote calls an OpenAI-compatible chat completions endpoint once per
// prompt. It never retries.
type Remote struct {
	settings   Settings
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[model.RawOutput]
	logger     logger.Logger
}

// RemoteOption customizes a Remote.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the HTTP client. Its Timeout is overridden by
// Settings.Timeout.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithRemoteLogger sets the logger used for breaker transitions.
func WithRemoteLogger(l logger.Logger) RemoteOption {
	return func(r *Remote) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRemote validates s and builds the provider client.
func NewRemote(s Settings, opts ...RemoteOption) (*Remote, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.BreakerFailures == 0 {
		s.BreakerFailures = 5
	}
	if s.BreakerCooldown <= 0 {
		s.BreakerCooldown = time.Minute
	}

	r := &Remote{
		settings:   s,
		httpClient: &http.Client{},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	client := *r.httpClient
	client.Timeout = s.Timeout
	r.httpClient = &client

	r.breaker = gobreaker.NewCircuitBreaker[model.RawOutput](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     s.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, stateValue(to))
			r.logger.Warn(context.Background(), "provider circuit breaker state change",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	metrics.SetBreakerState(breakerName, stateValue(gobreaker.StateClosed))

	return r, nil
}

// Call sends prompt to the provider and parses the top choice as a JSON
// object. Every failure is a *ProviderError.
func (r *Remote) Call(ctx context.Context, prompt string) (model.RawOutput, error) {
	start := time.Now()
	out, err := r.breaker.Execute(func() (model.RawOutput, error) {
		return r.call(ctx, prompt)
	})
	metrics.RecordClassifierLatency(string(model.SourceRemote), time.Since(start))
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return model.RawOutput{}, &ProviderError{Reason: ReasonBreakerOpen, Err: err}
		}
		return model.RawOutput{}, err
	}
	return out, nil
}

func (r *Remote) call(ctx context.Context, prompt string) (model.RawOutput, error) {
	body, err := json.Marshal(chatRequest{
		Model:       r.settings.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: r.settings.Temperature,
		MaxTokens:   r.settings.MaxTokens,
	})
	if err != nil {
		return model.RawOutput{}, &ProviderError{Reason: ReasonTransport, Err: err}
	}

	// Once issued the call runs to completion or timeout; caller
	// cancellation is not propagated.
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, r.settings.Endpoint, bytes.NewReader(body))
	if err != nil {
		return model.RawOutput{}, &ProviderError{Reason: ReasonTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.settings.APIKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return model.RawOutput{}, &ProviderError{Reason: transportReason(err), Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.RawOutput{}, &ProviderError{Reason: transportReason(err), Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return model.RawOutput{}, &ProviderError{
			Reason: ReasonStatus,
			Err:    fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(payload), 200)),
		}
	}

	var cr chatResponse
	if err := json.Unmarshal(payload, &cr); err != nil {
		return model.RawOutput{}, &ProviderError{Reason: ReasonDecode, Err: err}
	}
	if len(cr.Choices) == 0 {
		return model.RawOutput{}, &ProviderError{Reason: ReasonEmpty, Err: errors.New("no choices returned")}
	}

	fields, err := parseContent(cr.Choices[0].Message.Content)
	if err != nil {
		return model.RawOutput{}, &ProviderError{Reason: ReasonDecode, Err: err}
	}
	return model.RawOutput{Fields: fields, Source: model.SourceRemote}, nil
}

// parseContent decodes the model's text as a JSON object. Markdown code
// fences and chatter around the outermost braces are tolerated.
func parseContent(content string) (map[string]any, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err == nil && fields != nil {
		return fields, nil
	}

	start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return nil, errors.New("no JSON object in provider content")
	}
	fields = nil
	if err := json.Unmarshal([]byte(s[start:end+1]), &fields); err != nil {
		return nil, fmt.Errorf("parse provider content: %w", err)
	}
	if fields == nil {
		return nil, errors.New("provider content is not a JSON object")
	}
	return fields, nil
}

func transportReason(err error) string {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return ReasonTransport
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
