package main

import (
	"os"

	"github.com/cristianoliveira/propintel/cmd"
	"github.com/cristianoliveira/propintel/internal/colors"
)

func main() {
	os.Exit(run(os.Args[1:], cmd.Execute))
}

func run(args []string, execute func() error) int {
	cmd.RootCmd.SetArgs(args)
	colors.StructuredInfo("startup", "main", "started", nil, "", nil)
	defer func() {
		if err := deps.Close(); err != nil {
			colors.StructuredWarn("startup", "close", "failed", err, "", nil)
		}
	}()

	if err := execute(); err != nil {
		colors.StructuredError("startup", "main", "failed", err, "", nil)
		return 1
	}
	colors.StructuredInfo("startup", "main", "completed", nil, "", nil)
	return 0
}
