package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/app"
	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/notify"
	"github.com/spf13/cobra"
)

type notifyClient interface {
	Status(ctx context.Context) format.PreferencesView
	RequestPermission(ctx context.Context) notify.PermissionState
	DecidePermission(ctx context.Context, state notify.PermissionState) error
	ResetPermission(ctx context.Context) error
	Send(ctx context.Context, input app.SendInput) (notify.Handle, error)
	Test(ctx context.Context) int
	Formatter() format.Formatter
}

const notifyCommandLong = `Manage alert permission and send alerts.

USAGE:
    propintel notify <subcommand>

SUBCOMMANDS:
    permission    Ask for permission to show alerts
    status        Show backend support, permission and category toggles
    send          Send one alert
    test          Send one alert per enabled category

EXAMPLES:
    propintel notify permission
    propintel notify permission --reset
    propintel notify send --category high-priority --issue "Roof leak" --cost 3800 --wait`

// NewNotifyCmd creates the notify command with explicit dependencies.
func NewNotifyCmd(client notifyClient) *cobra.Command {
	if client == nil {
		panic("NewNotifyCmd: client dependency cannot be nil")
	}

	notifyCmd := &cobra.Command{
		Use:   "notify",
		Short: "Manage alert permission and send alerts",
		Long:  notifyCommandLong,
	}
	notifyCmd.AddCommand(newPermissionCmd(client))
	notifyCmd.AddCommand(newStatusCmd(client))
	notifyCmd.AddCommand(newSendCmd(client))
	notifyCmd.AddCommand(newTestCmd(client))
	return notifyCmd
}

func newPermissionCmd(client notifyClient) *cobra.Command {
	var grant, deny, reset bool
	permissionCmd := &cobra.Command{
		Use:   "permission",
		Short: "Ask for permission to show alerts",
		Long: `Ask for permission to show alerts. The question is asked only while no
decision has been made; once allowed or blocked the stored decision is
reported. Use --grant or --deny to decide without a prompt and --reset to
forget the decision.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			switch {
			case reset:
				if err := client.ResetPermission(ctx); err != nil {
					return fmt.Errorf("failed to reset permission: %w", err)
				}
				colors.Success("Permission decision forgotten")
				return nil
			case grant:
				return decide(ctx, client, notify.PermissionGranted)
			case deny:
				return decide(ctx, client, notify.PermissionDenied)
			}
			state := client.RequestPermission(ctx)
			fmt.Fprintln(c.OutOrStdout(), state)
			return nil
		},
	}
	permissionCmd.Flags().BoolVar(&grant, "grant", false, "Allow alerts without prompting")
	permissionCmd.Flags().BoolVar(&deny, "deny", false, "Block alerts without prompting")
	permissionCmd.Flags().BoolVar(&reset, "reset", false, "Forget the stored decision")
	permissionCmd.MarkFlagsMutuallyExclusive("grant", "deny", "reset")
	return permissionCmd
}

func decide(ctx context.Context, client notifyClient, state notify.PermissionState) error {
	if err := client.DecidePermission(ctx, state); err != nil {
		return fmt.Errorf("failed to store permission: %w", err)
	}
	colors.Success("Alerts " + string(state))
	return nil
}

func newStatusCmd(client notifyClient) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backend support, permission and category toggles",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return client.Formatter().FormatPreferences(c.OutOrStdout(), client.Status(c.Context()))
		},
	}
}

func newSendCmd(client notifyClient) *cobra.Command {
	var input app.SendInput
	var category string
	var wait time.Duration
	sendCmd := &cobra.Command{
		Use:   "send",
		Short: "Send one alert",
		Long: `Send one alert of the given category. The alert is subject to the stored
permission and category toggles. With --wait the command stays until the alert
is clicked, the wait elapses or it is interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			cat, err := notify.ParseCategory(category)
			if err != nil {
				return err
			}
			input.Category = cat
			h, err := client.Send(c.Context(), input)
			if err != nil || h == nil || wait <= 0 {
				return err
			}
			return waitForClick(c.Context(), h, wait)
		},
	}
	sendCmd.Flags().StringVarP(&category, "category", "c", "", "Alert category (inspection, inspection-update, high-priority)")
	sendCmd.Flags().StringVar(&input.Address, "address", "", "Property address")
	sendCmd.Flags().StringVar(&input.Message, "message", "", "Update message")
	sendCmd.Flags().StringVar(&input.Issue, "issue", "", "Issue description")
	sendCmd.Flags().Float64Var(&input.Cost, "cost", 0, "Estimated cost")
	sendCmd.Flags().DurationVar(&wait, "wait", 0, "Wait this long for a click")
	_ = sendCmd.MarkFlagRequired("category")
	return sendCmd
}

// waitForClick blocks until h is clicked, d elapses or the process is interrupted.
func waitForClick(ctx context.Context, h notify.Handle, d time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	clicked := make(chan struct{}, 1)
	h.OnClick(func() {
		select {
		case clicked <- struct{}{}:
		default:
		}
	})
	colors.Info("Waiting for a click...")
	select {
	case <-clicked:
		colors.Success("Alert clicked")
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			colors.Info("No click before the wait elapsed")
		}
		return nil
	}
}

func newTestCmd(client notifyClient) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send one alert per enabled category",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			client.Test(c.Context())
			return nil
		},
	}
}

var notifyCmd = NewNotifyCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(notifyCmd)
}
