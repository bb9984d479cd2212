package main

import (
	"context"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/app"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/storage"
	"github.com/spf13/cobra"
)

type historyService interface {
	Searches(ctx context.Context, limit int) ([]storage.SearchRecord, error)
	Alerts(ctx context.Context, limit int) ([]storage.AlertRow, error)
	Clear(ctx context.Context, input app.ClearInput) error
}

type historyClient interface {
	History() (historyService, error)
	Formatter() format.Formatter
}

// NewHistoryCmd creates the history command with explicit dependencies.
func NewHistoryCmd(client historyClient) *cobra.Command {
	if client == nil {
		panic("NewHistoryCmd: client dependency cannot be nil")
	}

	var alerts bool
	var limit int
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recent lookups or alerts",
		Long: `List recent address lookups, newest first. With --alerts list the alerts
that were shown instead, including which ones were superseded.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			h, err := client.History()
			if err != nil {
				return err
			}
			if alerts {
				rows, err := h.Alerts(c.Context(), limit)
				if err != nil {
					return err
				}
				return client.Formatter().FormatAlerts(c.OutOrStdout(), rows)
			}
			rows, err := h.Searches(c.Context(), limit)
			if err != nil {
				return err
			}
			return client.Formatter().FormatSearches(c.OutOrStdout(), rows)
		},
	}
	historyCmd.Flags().BoolVar(&alerts, "alerts", false, "List alerts instead of lookups")
	historyCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of rows")

	var force bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the lookup history",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			h, err := client.History()
			if err != nil {
				return err
			}
			return h.Clear(c.Context(), app.ClearInput{
				Force: force,
				ConfirmFn: func() bool {
					return confirmFunc("Delete every recorded lookup?")
				},
			})
		},
	}
	clearCmd.Flags().BoolVar(&force, "force", false, "Clear without confirmation")
	historyCmd.AddCommand(clearCmd)
	return historyCmd
}

// historyDeps narrows the container to historyClient.
type historyDeps struct{ *container }

func (d historyDeps) History() (historyService, error) {
	h, err := d.container.History()
	if err != nil {
		return nil, err
	}
	return h, nil
}

var historyCmd = NewHistoryCmd(historyDeps{deps})

func init() {
	cmd.RootCmd.AddCommand(historyCmd)
}
