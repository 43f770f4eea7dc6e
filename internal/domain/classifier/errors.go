package classifier

import (
	"context"
	"errors"
)

// Sentinel kinds for classifier errors. None of them leave the Selector.
var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrNoCredential        = errors.New("no provider credential configured")
	ErrInvalidSettings     = errors.New("invalid classifier settings")
)

// Failure reasons reported for provider errors.
const (
	ReasonTransport   = "transport"
	ReasonTimeout     = "timeout"
	ReasonStatus      = "status"
	ReasonDecode      = "decode"
	ReasonEmpty       = "empty"
	ReasonBreakerOpen = "breaker_open"
)

// ProviderError describes why a remote call could not produce output.
// It matches ErrProviderUnavailable with errors.Is.
type ProviderError struct {
	Reason string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return ErrProviderUnavailable.Error() + ": " + e.Reason
	}
	return ErrProviderUnavailable.Error() + ": " + e.Reason + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProviderUnavailable }

// Reason extracts the failure reason from err, or "unknown".
func Reason(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return "unknown"
}
