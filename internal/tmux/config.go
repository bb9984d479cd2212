package tmux

import "time"

// DefaultTimeout is the default timeout for tmux commands.
const DefaultTimeout = 5 * time.Second

// ClientOption is a functional option for configuring a DefaultClient.
type ClientOption func(*DefaultClient)

// WithSocketPath sets the tmux socket name (tmux -L) for the client.
func WithSocketPath(socketPath string) ClientOption {
	return func(c *DefaultClient) {
		c.socketPath = socketPath
	}
}

// WithTimeout sets the timeout for tmux command execution.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *DefaultClient) {
		c.timeout = timeout
	}
}

// WithRunner replaces the process runner. Tests use it to fake tmux.
func WithRunner(r Runner) ClientOption {
	return func(c *DefaultClient) {
		c.runner = r
	}
}
