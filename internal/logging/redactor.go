package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// redactor redacts sensitive values in log key-value pairs.
type redactor struct {
	sensitiveWords map[string]bool
}

func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "credential", "apikey"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitiveWords: m}
}

// redact returns a copy of the flattened key-value pairs with sensitive values replaced.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			result[i+1] = redacted
		}
	}
	return result
}

// isSensitive reports whether any non-alphanumeric separated segment of key is a sensitive word.
func (r *redactor) isSensitive(key string) bool {
	for _, part := range nonAlphanumeric.Split(strings.ToLower(key), -1) {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}
