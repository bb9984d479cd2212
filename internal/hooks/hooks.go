// Package hooks runs user scripts when propintel events happen.
//
// Scripts live in {hooks_dir}/{event}/ and run in lexical order. Each receives the
// event fields as PROPINTEL_* environment variables.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/config"
	"github.com/cristianoliveira/propintel/internal/notify"
)

// EventAlertShown fires after an alert has been shown and recorded.
const EventAlertShown = "alert-shown"

// Failure modes.
const (
	FailureWarn   = "warn"
	FailureIgnore = "ignore"
	FailureAbort  = "abort"
)

// Runner executes the scripts of an event.
type Runner struct {
	Dir         string
	Timeout     time.Duration
	FailureMode string
}

// FromConfig builds a Runner from the global configuration. It returns nil when hooks
// are disabled.
func FromConfig() *Runner {
	if !config.GetBool("hooks_enabled", true) {
		return nil
	}
	dir := config.Get("hooks_dir", "")
	if dir == "" {
		dir = filepath.Join(config.Get("config_dir", ""), "hooks")
	}
	return &Runner{
		Dir:         dir,
		Timeout:     time.Duration(config.GetInt("hooks_timeout_seconds", 10)) * time.Second,
		FailureMode: config.Get("hooks_failure_mode", FailureWarn),
	}
}

// Scripts returns the executable files for event, sorted by name.
func (r *Runner) Scripts(event string) ([]string, error) {
	dir := filepath.Join(r.Dir, event)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read hooks dir %s: %w", dir, err)
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, e.Name()))
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Run executes every script of event. In abort mode the first failure stops the run
// and is returned; otherwise failures are reported and the run continues.
func (r *Runner) Run(ctx context.Context, event string, fields map[string]string) error {
	scripts, err := r.Scripts(event)
	if err != nil {
		return err
	}
	env := os.Environ()
	env = append(env, "PROPINTEL_EVENT="+event)
	for k, v := range fields {
		env = append(env, "PROPINTEL_"+strings.ToUpper(k)+"="+v)
	}

	for _, script := range scripts {
		if err := r.runOne(ctx, script, env); err != nil {
			switch r.FailureMode {
			case FailureAbort:
				return err
			case FailureIgnore:
			default:
				colors.Warning(err.Error())
			}
		}
	}
	return nil
}

func (r *Runner) runOne(ctx context.Context, script string, env []string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	start := time.Now()
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = env
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	fields := map[string]any{"duration_ms": time.Since(start).Milliseconds()}
	if err != nil {
		colors.StructuredWarn("hooks", "run", "failed", err, filepath.Base(script), fields)
		return fmt.Errorf("hook %s failed: %w: %s", filepath.Base(script), err, strings.TrimSpace(out.String()))
	}
	colors.StructuredDebug("hooks", "run", "completed", nil, filepath.Base(script), fields)
	return nil
}

// Recorder runs the alert-shown hooks after passing the record on to next.
type Recorder struct {
	next   notify.Recorder
	runner *Runner
}

// NewRecorder wraps next, which may be nil.
func NewRecorder(next notify.Recorder, runner *Runner) *Recorder {
	if runner == nil {
		panic("hooks.NewRecorder: runner cannot be nil")
	}
	return &Recorder{next: next, runner: runner}
}

// RecordAlert implements notify.Recorder.
func (r *Recorder) RecordAlert(ctx context.Context, rec notify.AlertRecord) error {
	if r.next != nil {
		if err := r.next.RecordAlert(ctx, rec); err != nil {
			return err
		}
	}
	return r.runner.Run(ctx, EventAlertShown, map[string]string{
		"platform":             rec.Platform,
		"category":             string(rec.Category),
		"tag":                  rec.Tag,
		"title":                rec.Title,
		"body":                 rec.Body,
		"requires_interaction": fmt.Sprint(rec.RequiresInteraction),
		"alert_id":             rec.HandleID,
		"superseded_id":        rec.SupersededID,
	})
}

var _ notify.Recorder = (*Recorder)(nil)
