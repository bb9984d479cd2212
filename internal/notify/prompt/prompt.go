// Package prompt asks the user for alert permission in the terminal and remembers
// the answer per backend.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/cristianoliveira/propintel/internal/notify"
)

// ErrNotInteractive is returned by Prompt when stdin is not a terminal.
var ErrNotInteractive = errors.New("permission prompt needs an interactive terminal")

// DecisionStore remembers permission decisions.
type DecisionStore interface {
	PermissionDecision(ctx context.Context, backend string) (string, bool, error)
	SavePermissionDecision(ctx context.Context, backend, state string) error
}

// Authority is a notify.PermissionAuthority backed by a terminal confirm prompt.
type Authority struct {
	store      DecisionStore
	backend    string
	ask        func(ctx context.Context) (bool, error)
	isTerminal func() bool
}

// New returns an Authority remembering decisions for backend in store.
func New(store DecisionStore, backend string) *Authority {
	if store == nil {
		panic("prompt.New: store cannot be nil")
	}
	return &Authority{
		store:   store,
		backend: backend,
		ask:     confirm,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// State implements notify.PermissionAuthority.
func (a *Authority) State(ctx context.Context) (notify.PermissionState, error) {
	raw, ok, err := a.store.PermissionDecision(ctx, a.backend)
	if err != nil {
		return notify.PermissionDefault, err
	}
	if !ok {
		return notify.PermissionDefault, nil
	}
	return notify.ParsePermissionState(raw)
}

// Prompt implements notify.PermissionAuthority. An aborted prompt leaves the state at
// default so the question can be asked again later.
func (a *Authority) Prompt(ctx context.Context) (notify.PermissionState, error) {
	if !a.isTerminal() {
		return notify.PermissionDefault, ErrNotInteractive
	}
	allow, err := a.ask(ctx)
	if err != nil {
		return notify.PermissionDefault, fmt.Errorf("permission prompt: %w", err)
	}
	state := notify.PermissionDenied
	if allow {
		state = notify.PermissionGranted
	}
	if err := a.Decide(ctx, state); err != nil {
		return notify.PermissionDefault, err
	}
	return state, nil
}

// Decide records state without prompting.
func (a *Authority) Decide(ctx context.Context, state notify.PermissionState) error {
	return a.store.SavePermissionDecision(ctx, a.backend, string(state))
}

func confirm(ctx context.Context) (bool, error) {
	var allow bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Allow propintel to show alerts?").
			Description("New inspections, inspection updates and high priority issues.").
			Affirmative("Allow").
			Negative("Block").
			Value(&allow),
	)).RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return allow, nil
}

var _ notify.PermissionAuthority = (*Authority)(nil)
