// Package colors provides color console output mirrored into the structured logger.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	mu           sync.RWMutex
	debugEnabled bool
	quiet        bool
	logger       Logger
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("PROPINTEL_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

// SetQuiet suppresses informational and success output. Errors and warnings are still printed.
func SetQuiet(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil keeps the current writer.
// It returns a function restoring the previous writers.
func SetOutput(out, errOut io.Writer) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prevOut, prevErr := stdout, stderr
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
	return func() {
		mu.Lock()
		defer mu.Unlock()
		stdout, stderr = prevOut, prevErr
	}
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelSuccess
	levelWarn
	levelError
)

// emit mirrors msg to the logger and prints it with the given prefix.
func emit(lvl level, toStderr bool, prefix, msg string) {
	mu.RLock()
	l := logger
	w := stdout
	if toStderr {
		w = stderr
	}
	silenced := quiet && (lvl == levelInfo || lvl == levelSuccess)
	mu.RUnlock()

	if l != nil {
		switch lvl {
		case levelDebug:
			l.Debug(msg)
		case levelInfo:
			l.Info(msg)
		case levelSuccess:
			l.Info(msg, "type", "success")
		case levelWarn:
			l.Warn(msg)
		case levelError:
			l.Error(msg)
		}
	}
	if silenced {
		return
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", prefix, msg+Reset); err != nil {
		// Last resort; nothing else can be done with a broken terminal.
		fmt.Fprintf(os.Stderr, "failed to print message: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	emit(levelError, true, Red+"Error:"+Reset+" ", strings.Join(msgs, " "))
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	emit(levelSuccess, false, Green+checkmark+Reset+" ", strings.Join(msgs, " "))
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	emit(levelWarn, true, Yellow+"Warning:"+Reset+" ", strings.Join(msgs, " "))
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	emit(levelInfo, false, Blue, strings.Join(msgs, " "))
}

// Plain writes msg to stdout without color or logger mirroring. Used for command results
// that are meant to be piped.
func Plain(msg string) {
	mu.RLock()
	w := stdout
	mu.RUnlock()
	fmt.Fprintln(w, msg)
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !DebugEnabled() {
		return
	}
	emit(levelDebug, true, Cyan+"Debug:"+Reset+" ", strings.Join(msgs, " "))
}
