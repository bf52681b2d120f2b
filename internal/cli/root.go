// Package cli provides the command-line interface for nbodydiff.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/nbodydiff/internal/cli/commands"
	"github.com/ccollicutt/nbodydiff/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = 0
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// A first argument that names no built-in command and no file may be a plugin
	pluginCandidate := ""
	if len(args) > 0 && !isBuiltinCommand(rootCmd, args[0]) && plugins.LooksLikeCommand(args[0]) {
		pluginCandidate = args[0]
		if pluginPath, err := plugins.FindPlugin(pluginCandidate); err == nil {
			return plugins.Execute(pluginPath, args[1:])
		}
	}

	if err := rootCmd.Execute(); err != nil {
		// Only a rejected command line means the word was never read as a path
		var usage *commands.UsageError
		if pluginCandidate != "" && errors.As(err, &usage) {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(pluginCandidate))
			return 2
		}
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	// Also check for special commands like help and completion
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nbodydiff [flags] <serial.csv> <barnes-hut.csv>",
		Short: "Compare serial and Barnes-Hut N-body simulation logs",
		Long: `nbodydiff compares the CSV log of a serial (exact) N-body simulation with the
log of a Barnes-Hut simulation of the same system.

Rows are paired by position (or by body id and timestep with --align key), and
for every pair it prints serial minus Barnes-Hut for x, y, vx and vy:

  body: <id> | id: <timestep> | x_diff: ... | y_diff: ... | vx_diff: ... | vy_diff: ...

Both files must have the same number of rows.

Exit codes:
  0 - Comparison printed
  2 - Usage, configuration, file or alignment error

PLUGINS:
  nbodydiff supports plugins for extended functionality. Plugins are standalone
  binaries named nbodydiff-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the nbodydiff binary
    2. ~/.nbodydiff/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.BindCompare(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
