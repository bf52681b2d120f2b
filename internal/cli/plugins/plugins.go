// Package plugins provides exec-based plugin support for nbodydiff.
// Plugins are separate binaries named nbodydiff-<command> that are discovered
// and executed when the first argument names no built-in command and is not
// a data file.
//
// This follows the same pattern used by kubectl and git for plugins.
package plugins

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "nbodydiff-"

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// LooksLikeCommand reports whether arg could name a plugin rather than a
// data file: it is not a flag, has no dot or path separator, and no file of
// that name exists.
func LooksLikeCommand(arg string) bool {
	if arg == "" || arg[0] == '-' {
		return false
	}
	if strings.ContainsAny(arg, "./\\") {
		return false
	}
	if _, err := os.Stat(arg); err == nil {
		return false
	}
	return true
}

// FindPlugin searches for a plugin binary named nbodydiff-<command>.
// It searches in the following locations in order:
//  1. Same directory as the nbodydiff binary
//  2. ~/.nbodydiff/plugins/
//  3. Anywhere in PATH
//
// Returns the full path to the plugin binary if found.
func FindPlugin(command string) (string, error) {
	pluginName := Prefix + command

	for _, dir := range searchDirs() {
		candidate := filepath.Join(dir, pluginName)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(pluginName); err == nil {
		return path, nil
	}

	return "", ErrPluginNotFound
}

func searchDirs() []string {
	var dirs []string
	if execPath, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".nbodydiff", "plugins"))
	}
	return dirs
}

// Execute runs a plugin with the given arguments.
// It connects stdin, stdout, and stderr to the plugin process
// and returns the plugin's exit code.
func Execute(pluginPath string, args []string) int {
	cmd := exec.Command(pluginPath, args...) // #nosec G204 -- plugin path comes from FindPlugin
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 2
	}

	return 0
}

// FormatNotFoundError returns a helpful error message when a plugin is not found.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("unknown command %q for \"nbodydiff\"\n", command))
	sb.WriteString("\nTo compare two logs, pass both file paths:\n")
	sb.WriteString("  nbodydiff <serial.csv> <barnes-hut.csv>\n")

	sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	sb.WriteString(fmt.Sprintf("  - %s%s in the same directory as nbodydiff\n", Prefix, command))
	sb.WriteString(fmt.Sprintf("  - ~/.nbodydiff/plugins/%s%s\n", Prefix, command))
	sb.WriteString(fmt.Sprintf("  - %s%s anywhere in your PATH\n", Prefix, command))

	sb.WriteString("\nRun 'nbodydiff --help' for usage.")

	return sb.String()
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	if info.Mode().IsRegular() {
		return info.Mode()&0111 != 0
	}

	return false
}
