package main

import (
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// confirmFunc asks a yes/no question. Replaced in tests.
var confirmFunc = func(title string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false
	}
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return err == nil && ok
}
