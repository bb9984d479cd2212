package config

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cristianoliveira/propintel/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator returns a validator that ensures a value is a positive integer.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a positive integer, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// IntRangeValidator returns a validator that ensures a value is an integer within [lo, hi].
func IntRangeValidator(lo, hi int) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < lo || n > hi {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an integer between %d and %d, using default: %s", key, value, lo, hi, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// PositiveFloatValidator returns a validator that ensures a value is a finite number above zero.
func PositiveFloatValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be a positive number, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// EnumValidator returns a validator that ensures a value is one of the allowed enum values.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		valueLower := strings.ToLower(value)
		if !allowed[valueLower] {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be one of: %s; using default: %s", key, value, allowedValues(allowed), defaultValue))
			return defaultValue, nil
		}
		return valueLower, nil
	}
}

// BoolValidator returns a validator that normalizes and validates boolean values.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', must be one of: 1, true, yes, on, 0, false, no, off; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

var sizePattern = regexp.MustCompile(`^[1-9][0-9]{0,3}x[1-9][0-9]{0,3}$`)

// SizeValidator accepts WIDTHxHEIGHT pixel dimensions.
func SizeValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		v := strings.ToLower(strings.TrimSpace(value))
		if !sizePattern.MatchString(v) {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must look like 800x400, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return v, nil
	}
}

// URLValidator accepts absolute http(s) URLs and strips a trailing slash.
func URLValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an http(s) URL, using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return strings.TrimRight(value, "/"), nil
	}
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

func initValidators() {
	positiveInt := PositiveIntValidator()
	RegisterValidator("geocode_timeout_seconds", positiveInt)
	RegisterValidator("notify_timeout_ms", positiveInt)
	RegisterValidator("logging_max_files", positiveInt)
	RegisterValidator("hooks_timeout_seconds", positiveInt)

	RegisterValidator("geocode_rate_per_sec", PositiveFloatValidator())
	RegisterValidator("staticmap_zoom", IntRangeValidator(0, 19))
	RegisterValidator("staticmap_size", SizeValidator())

	RegisterValidator("geocode_base_url", URLValidator())
	RegisterValidator("staticmap_base_url", URLValidator())

	RegisterValidator("notify_backend", EnumValidator(map[string]bool{"auto": true, "desktop": true, "tmux": true, "log": true, "none": true}))
	RegisterValidator("hooks_failure_mode", EnumValidator(map[string]bool{"warn": true, "ignore": true, "abort": true}))
	RegisterValidator("logging_level", EnumValidator(map[string]bool{"debug": true, "info": true, "warn": true, "error": true}))

	boolValidator := BoolValidator()
	RegisterValidator("history_enabled", boolValidator)
	RegisterValidator("hooks_enabled", boolValidator)
	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("debug", boolValidator)
	RegisterValidator("quiet", boolValidator)
}

// allowedValues returns a sorted, comma-separated string of allowed values.
func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
