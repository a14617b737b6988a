package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Colorized output is disabled automatically when stdout isn't a terminal
// (piped into a file, captured by a test, etc). On Windows, stdout is
// wrapped through go-colorable so ANSI codes still render in cmd.exe.
func init() {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.Output = colorable.NewColorableStdout()
	} else {
		color.NoColor = true
	}
}

var (
	bold   = color.New(color.Bold).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// getColorizedLogo returns the short banner printed at the top of every
// help screen.
func getColorizedLogo() string {
	return bold(cyan("phredkit"))
}
