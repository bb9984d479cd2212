/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/cristianoliveira/propintel/internal/colors"
	"github.com/cristianoliveira/propintel/internal/config"
	"github.com/cristianoliveira/propintel/internal/format"
	"github.com/cristianoliveira/propintel/internal/logging"
	"github.com/cristianoliveira/propintel/internal/version"
	"github.com/spf13/cobra"
)

var (
	outputFormat string
	verbose      bool
	debugFlag    bool
	quietFlag    bool
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "propintel",
	Short: "Property inspection companion with location lookup and alerts.",
	Long: `Property inspection companion.

Resolves addresses to coordinates and a static map, summarises inspection
findings and raises categorised alerts for new inspections, inspection
updates and high priority issues.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.ShutdownGlobal()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true

	flags := RootCmd.PersistentFlags()
	flags.StringVar(&outputFormat, "format", string(format.FormatterTypeText), "Output format: text or json")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show lookup diagnostics")
	flags.BoolVar(&debugFlag, "debug", false, "Enable debug output")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Only print errors")
}

// setup loads configuration and starts the file logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	config.Load()

	colors.SetDebug(debugFlag || config.GetBool("debug", false))
	colors.SetQuiet(quietFlag || config.GetBool("quiet", false))

	if err := logging.InitGlobal(); err != nil {
		colors.Warning("file logging disabled: " + err.Error())
	}

	switch format.FormatterType(strings.ToLower(outputFormat)) {
	case format.FormatterTypeText, format.FormatterTypeJSON:
	default:
		return fmt.Errorf("invalid --format %q: use text or json", outputFormat)
	}
	colors.StructuredDebug("startup", "setup", "completed", nil, cmd.Name(), map[string]any{
		"config": config.Path(),
		"format": outputFormat,
	})
	return nil
}

// Formatter returns the formatter selected by the --format and --verbose flags.
func Formatter() format.Formatter {
	return format.NewFormatter(format.FormatterType(strings.ToLower(outputFormat)), verbose)
}

// Verbose reports whether --verbose was given.
func Verbose() bool {
	return verbose
}
