package geocode

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the query matches no place. It is a valid negative
// result, not a failure.
var ErrNotFound = errors.New("location not found")

// ResolutionError reports a lookup that failed before producing an answer: transport
// errors, non-2xx responses, undecodable payloads or unusable coordinates.
type ResolutionError struct {
	Query  string
	Status int
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("resolve %q: status %d: %v", e.Query, e.Status, e.Err)
	}
	return fmt.Sprintf("resolve %q: %v", e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Outcome classifies the result of Resolve.
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNotFound Outcome = "not-found"
	OutcomeError    Outcome = "error"
)

// Classify maps the error returned by Resolve to an Outcome.
func Classify(err error) Outcome {
	if err == nil {
		return OutcomeFound
	}
	if errors.Is(err, ErrNotFound) {
		return OutcomeNotFound
	}
	return OutcomeError
}
