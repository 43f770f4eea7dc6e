package normalize

import "errors"

// ErrMalformedResponse is returned when classifier output cannot be coerced
// into a recommendation.
var ErrMalformedResponse = errors.New("malformed classifier response")

// MalformedError names the offending field. It matches ErrMalformedResponse.
type MalformedError struct {
	Field  string
	Reason string
}

func (e *MalformedError) Error() string {
	return ErrMalformedResponse.Error() + ": " + e.Field + ": " + e.Reason
}

func (e *MalformedError) Is(target error) bool { return target == ErrMalformedResponse }

func malformed(field, reason string) error {
	return &MalformedError{Field: field, Reason: reason}
}
