package tmux

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/propintel/internal/colors"
)

// Context captures the tmux session/window/pane a command runs in.
type Context struct {
	SessionID string
	WindowID  string
	PaneID    string
}

// Client is the subset of tmux operations propintel needs.
type Client interface {
	// HasSession reports whether a tmux server is reachable.
	HasSession() (bool, error)
	// GetCurrentContext returns the session/window/pane of the calling process.
	GetCurrentContext() (Context, error)
	// JumpToPane focuses the given pane, or the window when paneID is empty.
	JumpToPane(sessionID, windowID, paneID string) (bool, error)
	// SetUserOption sets a global @user option; an empty value unsets it.
	SetUserOption(name, value string) error
	// DisplayMessage shows msg on the status line for d (0 keeps it until a key is pressed).
	DisplayMessage(msg string, d time.Duration) error
	// Run executes a tmux command with the given arguments.
	Run(args ...string) (string, string, error)
}

// Runner executes a tmux process and returns stdout and stderr.
type Runner func(ctx context.Context, args ...string) (string, string, error)

func execRunner(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "tmux", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// DefaultClient implements Client by running the tmux binary.
type DefaultClient struct {
	socketPath string
	timeout    time.Duration
	runner     Runner
}

// NewDefaultClient creates a new DefaultClient with the given options.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		timeout: DefaultTimeout,
		runner:  execRunner,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Run executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) Run(args ...string) (string, string, error) {
	start := time.Now()
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmdArgs := []string{}
	if c.socketPath != "" {
		cmdArgs = append(cmdArgs, "-L", c.socketPath)
	}
	cmdArgs = append(cmdArgs, args...)

	stdout, stderr, err := c.runner(ctx, cmdArgs...)
	fields := map[string]any{"args_count": len(args), "duration_seconds": time.Since(start).Seconds()}
	if err != nil {
		colors.StructuredError("tmux", "run", "failed", err, command, fields)
		return stdout, stderr, fmt.Errorf("tmux command %v failed: %w", args, err)
	}
	colors.StructuredDebug("tmux", "run", "completed", nil, command, fields)
	return stdout, stderr, nil
}

// HasSession checks if tmux server is running.
func (c *DefaultClient) HasSession() (bool, error) {
	_, stderr, err := c.Run("has-session")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return false, ErrTmuxNotRunning
	}
	return true, nil
}

// GetCurrentContext returns the current tmux session/window/pane context.
func (c *DefaultClient) GetCurrentContext() (Context, error) {
	stdout, stderr, err := c.Run("display", "-p", "#{session_id} #{window_id} #{pane_id}")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return Context{}, fmt.Errorf("failed to get tmux context: %w", err)
	}
	parts := strings.Fields(stdout)
	if len(parts) != 3 {
		return Context{}, fmt.Errorf("unexpected format - expected 3 parts, got %d", len(parts))
	}
	return Context{SessionID: parts[0], WindowID: parts[1], PaneID: parts[2]}, nil
}

// JumpToPane switches the client to the session, selects the window and, when paneID is
// set, the pane. Returns true if the jump succeeded.
func (c *DefaultClient) JumpToPane(sessionID, windowID, paneID string) (ok bool, err error) {
	fields := map[string]any{"session_id": sessionID, "window_id": windowID, "pane_id": paneID}
	defer func() {
		if err != nil {
			colors.StructuredError("tmux", "jump", "failed", err, "", fields)
			return
		}
		colors.StructuredInfo("tmux", "jump", "completed", nil, "", fields)
	}()

	if sessionID == "" || windowID == "" {
		return false, ErrInvalidTarget
	}
	if _, _, err := c.Run("switch-client", "-t", sessionID); err != nil {
		return false, fmt.Errorf("switch client to session %s: %w", sessionID, err)
	}
	targetWindow := sessionID + ":" + windowID
	if _, _, err := c.Run("select-window", "-t", targetWindow); err != nil {
		return false, fmt.Errorf("window %s does not exist: %w", targetWindow, err)
	}
	if paneID == "" {
		return true, nil
	}
	targetPane := targetWindow + "." + paneID
	if _, _, err := c.Run("select-pane", "-t", targetPane); err != nil {
		return false, fmt.Errorf("failed to select pane %s: %w", targetPane, err)
	}
	return true, nil
}

// SetUserOption sets a global @user option. An empty value unsets the option.
func (c *DefaultClient) SetUserOption(name, value string) error {
	if !strings.HasPrefix(name, "@") {
		name = "@" + name
	}
	args := []string{"set-option", "-g", name, value}
	if value == "" {
		args = []string{"set-option", "-gu", name}
	}
	if _, stderr, err := c.Run(args...); err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return fmt.Errorf("failed to set option %s: %w", name, err)
	}
	return nil
}

// DisplayMessage shows msg on the status line of the current client.
func (c *DefaultClient) DisplayMessage(msg string, d time.Duration) error {
	ms := strconv.FormatInt(d.Milliseconds(), 10)
	// tmux expands #{...} formats; a literal # must be doubled.
	escaped := strings.ReplaceAll(msg, "#", "##")
	if _, _, err := c.Run("display-message", "-d", ms, escaped); err != nil {
		return fmt.Errorf("failed to display message: %w", err)
	}
	return nil
}
