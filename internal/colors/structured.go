package colors

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	structuredMu             sync.Mutex
	structuredLoggingEnabled atomic.Bool
)

func init() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLogLevel represents log level for structured logs.
type StructuredLogLevel string

const (
	LevelDebug StructuredLogLevel = "debug"
	LevelInfo  StructuredLogLevel = "info"
	LevelWarn  StructuredLogLevel = "warn"
	LevelError StructuredLogLevel = "error"
)

// StructuredLogEntry represents a structured log entry.
type StructuredLogEntry struct {
	Timestamp string             `json:"timestamp"`
	Level     StructuredLogLevel `json:"level"`
	Component string             `json:"component"`
	Action    string             `json:"action"`
	Status    string             `json:"status"`
	Error     string             `json:"error,omitempty"`
	ID        string             `json:"id,omitempty"`
	Fields    map[string]any     `json:"fields,omitempty"`
}

// DisableStructuredLogging disables structured logging output.
// Interactive prompts call this so JSON lines do not interleave with the form.
func DisableStructuredLogging() {
	structuredLoggingEnabled.Store(false)
}

// EnableStructuredLogging enables structured logging output.
func EnableStructuredLogging() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLog writes a structured log entry to stderr when debug mode is on.
func StructuredLog(level StructuredLogLevel, component, action, status string, err error, id string, fields map[string]any) {
	if !DebugEnabled() || !structuredLoggingEnabled.Load() {
		return
	}

	entry := StructuredLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: component,
		Action:    action,
		Status:    status,
		ID:        id,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		Warning(fmt.Sprintf("failed to marshal structured log: %v", marshalErr))
		return
	}

	structuredMu.Lock()
	defer structuredMu.Unlock()
	mu.RLock()
	w := stderr
	mu.RUnlock()
	fmt.Fprintf(w, "%s\n", data)
}

// StructuredDebug logs a structured debug entry.
func StructuredDebug(component, action, status string, err error, id string, fields map[string]any) {
	StructuredLog(LevelDebug, component, action, status, err, id, fields)
}

// StructuredInfo logs a structured info entry.
func StructuredInfo(component, action, status string, err error, id string, fields map[string]any) {
	StructuredLog(LevelInfo, component, action, status, err, id, fields)
}

// StructuredWarn logs a structured warning entry.
func StructuredWarn(component, action, status string, err error, id string, fields map[string]any) {
	StructuredLog(LevelWarn, component, action, status, err, id, fields)
}

// StructuredError logs a structured error entry.
func StructuredError(component, action, status string, err error, id string, fields map[string]any) {
	StructuredLog(LevelError, component, action, status, err, id, fields)
}
