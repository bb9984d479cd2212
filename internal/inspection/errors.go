package inspection

import "errors"

var (
	// ErrAddressRequired is returned when the address is blank.
	ErrAddressRequired = errors.New("please enter a property address")
	// ErrJobTypeRequired is returned when no job type was given.
	ErrJobTypeRequired = errors.New("please select a job type")
	// ErrUnknownJobType is returned for a job type outside the catalogue.
	ErrUnknownJobType = errors.New("unknown job type")
	// ErrInvalidIssue is returned for malformed issue entries.
	ErrInvalidIssue = errors.New("invalid issue")
)
