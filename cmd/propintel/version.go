package main

import (
	"fmt"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/version"
	"github.com/spf13/cobra"
)

type versionClient interface {
	Version() string
	Detailed() string
}

type buildInfo struct{}

func (buildInfo) Version() string  { return version.String() }
func (buildInfo) Detailed() string { return version.Detailed() }

// NewVersionCmd creates the version command with explicit dependencies.
func NewVersionCmd(client versionClient) *cobra.Command {
	if client == nil {
		panic("NewVersionCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if cmd.Verbose() {
				fmt.Fprintln(c.OutOrStdout(), client.Detailed())
				return nil
			}
			fmt.Fprintf(c.OutOrStdout(), "propintel version %s\n", client.Version())
			return nil
		},
	}
}

var versionCmd = NewVersionCmd(buildInfo{})

func init() {
	cmd.RootCmd.AddCommand(versionCmd)
}
