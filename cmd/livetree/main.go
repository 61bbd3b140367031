package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	lterrors "github.com/vango-dev/livetree/internal/errors"
)

// Version information set at build time.
var (
	commit = "none"
	date   = "unknown"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		lterrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "livetree",
		Short: "Keep a live output tree in sync with reactive state",
		Long: `livetree renders declarative content into an output tree once and
then patches it in place as the reactive cells it reads change.

Commands:
  demo      play the scripted todo session and print each step
  inspect   serve the todo application over the HTTP inspector`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		demoCmd(),
		inspectCmd(),
		versionCmd(),
	)
	return rootCmd
}
