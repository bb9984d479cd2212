package main

import (
	"fmt"
	"strconv"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/app"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/cristianoliveira/propintel/internal/settings"
	"github.com/spf13/cobra"
)

type settingsClient interface {
	Preferences() (notify.Preferences, error)
	Toggle(name string) error
	Set(name string, enabled bool) error
	Reset(input app.ResetInput) error
}

const (
	settingsCommandLong = `Manage alert category toggles.

USAGE:
    propintel settings <subcommand>

SUBCOMMANDS:
    show      Display the category toggles
    toggle    Flip one category on or off
    set       Turn one category on or off
    reset     Turn every category back on

CATEGORIES:
    inspection          New inspections
    inspection-update   Inspection updates
    high-priority       High priority issues

EXAMPLES:
    propintel settings toggle high-priority
    propintel settings set inspection-update false
    propintel settings reset --force`
)

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client settingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}

	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage alert category toggles",
		Long:  settingsCommandLong,
	}
	settingsCmd.AddCommand(newShowCmd(client))
	settingsCmd.AddCommand(newToggleCmd(client))
	settingsCmd.AddCommand(newSetCmd(client))
	settingsCmd.AddCommand(newResetCmd(client))
	return settingsCmd
}

func newShowCmd(client settingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the category toggles",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			prefs, err := client.Preferences()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "# %s\n", settings.Path())
			return cmd.Formatter().FormatPreferences(c.OutOrStdout(), format.PreferencesView{Preferences: prefs})
		},
	}
}

func newToggleCmd(client settingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <category>",
		Short: "Flip one category on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return client.Toggle(args[0])
		},
	}
}

func newSetCmd(client settingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <true|false>",
		Short: "Turn one category on or off",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q: use true or false", args[1])
			}
			return client.Set(args[0], enabled)
		},
	}
}

func newResetCmd(client settingsClient) *cobra.Command {
	var force bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Turn every category back on",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return client.Reset(app.ResetInput{
				Force: force,
				ConfirmFn: func() bool {
					return confirmFunc("Reset all alert categories to enabled?")
				},
			})
		},
	}
	resetCmd.Flags().BoolVar(&force, "force", false, "Reset without confirmation")
	return resetCmd
}

var settingsCmd = NewSettingsCmd(app.NewSettingsUseCase(settingsAdapter{}))

func init() {
	cmd.RootCmd.AddCommand(settingsCmd)
}
