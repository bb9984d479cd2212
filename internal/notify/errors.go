package notify

import "errors"

var (
	// ErrCapabilityUnsupported is returned when the host has no alert capability.
	ErrCapabilityUnsupported = errors.New("alert capability unsupported")

	// ErrPermissionRefused is returned when alerts were not granted.
	ErrPermissionRefused = errors.New("alert permission refused")

	// ErrUnknownCategory is returned for names outside the category set.
	ErrUnknownCategory = errors.New("unknown alert category")
)
