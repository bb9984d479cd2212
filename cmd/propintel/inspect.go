package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/app"
	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/inspection"
	"github.com/spf13/cobra"
)

type inspectClient interface {
	Inspect(ctx context.Context, input app.InspectInput) (app.InspectResult, error)
	Country() string
	Formatter() format.Formatter
}

const inspectCommandLong = `Run a property inspection.

Validates the address and job type, summarises the inspection findings, looks the
address up and raises alerts for the new inspection and every high severity issue.

USAGE:
    propintel inspect <address> --job <job-type> [OPTIONS]

EXAMPLES:
    propintel inspect "10 Downing Street, London" --job roofing-contractor
    propintel inspect "1 High St" --job plumber --issues findings.yaml --no-alerts
    propintel inspect --list-jobs`

// NewInspectCmd creates the inspect command with explicit dependencies.
func NewInspectCmd(client inspectClient) *cobra.Command {
	if client == nil {
		panic("NewInspectCmd: client dependency cannot be nil")
	}

	var input app.InspectInput
	var listJobs bool
	inspectCmd := &cobra.Command{
		Use:   "inspect <address>",
		Short: "Run a property inspection",
		Long:  inspectCommandLong,
		RunE: func(c *cobra.Command, args []string) error {
			if listJobs {
				printJobTypes(c)
				return nil
			}
			input.Address = strings.Join(args, " ")
			if input.Country == "" {
				input.Country = client.Country()
			}
			res, err := client.Inspect(c.Context(), input)
			if err != nil {
				return err
			}
			if err := client.Formatter().FormatInspection(c.OutOrStdout(), res.View); err != nil {
				return err
			}
			if !input.SkipAlerts {
				colors.Info(fmt.Sprintf("%d alert(s) raised", res.AlertsSent))
			}
			return nil
		},
	}
	inspectCmd.Flags().StringVarP(&input.JobType, "job", "j", "", "Job type slug (see --list-jobs)")
	inspectCmd.Flags().StringVar(&input.Country, "country", "", "ISO country code to restrict the lookup")
	inspectCmd.Flags().StringVar(&input.IssuesPath, "issues", "", "YAML file with inspection findings")
	inspectCmd.Flags().BoolVar(&input.SkipLookup, "no-lookup", false, "Skip the address lookup")
	inspectCmd.Flags().BoolVar(&input.SkipAlerts, "no-alerts", false, "Do not raise alerts")
	inspectCmd.Flags().BoolVar(&listJobs, "list-jobs", false, "List the known job types")
	return inspectCmd
}

func printJobTypes(c *cobra.Command) {
	out := c.OutOrStdout()
	for _, g := range inspection.JobGroups {
		fmt.Fprintln(out, g.Name)
		for _, t := range g.Types {
			fmt.Fprintf(out, "    %-28s %s\n", t, inspection.RoleLabel(t))
		}
	}
}

var inspectCmd = NewInspectCmd(deps)

func init() {
	cmd.RootCmd.AddCommand(inspectCmd)
}
