// Package execenv runs a child process with fetched secrets added to its
// environment.
package execenv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/logging"
)

// Executor handles running commands with ephemeral environment variables
type Executor struct {
	logger *logging.Logger
}

// New creates a new executor
func New(logger *logging.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// ExecOptions configures command execution
type ExecOptions struct {
	Command       []string          // Command and arguments to run
	Environment   map[string]string // Variables to add, name to secret value
	AllowOverride bool              // Existing env vars win over fetched values
	PrintVars     bool              // Print variable names with masked values to Stderr
	WorkingDir    string

	// Standard streams of the child. Default to the process's own.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError reports that the child ran and exited with a non-zero status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// Exec runs a command with the provided environment variables and waits for it.
func (e *Executor) Exec(ctx context.Context, options ExecOptions) error {
	if len(options.Command) == 0 {
		return dserrors.UserError{
			Message:    "No command specified",
			Suggestion: "Provide a command after -- (e.g., vaultprovider-aws exec --env DB_PASSWORD=prod/db -- ./server)",
		}
	}

	cmdName := options.Command[0]
	if _, err := exec.LookPath(cmdName); err != nil {
		return dserrors.WrapCommandNotFound(cmdName, err)
	}

	stdin, stdout, stderr := options.Stdin, options.Stdout, options.Stderr
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	if options.PrintVars {
		printEnvironment(stderr, options.Environment)
	}

	cmd := exec.CommandContext(ctx, cmdName, options.Command[1:]...)
	cmd.Env = buildEnvironment(os.Environ(), options.Environment, options.AllowOverride)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Dir = options.WorkingDir

	e.logger.Debug("Executing command: %s", strings.Join(options.Command, " "))
	e.logger.Debug("Environment variables set: %d", len(options.Environment))
	for _, key := range sortedKeys(options.Environment) {
		e.logger.Debug("Setting %s=%s", key, logging.Secret(options.Environment[key]))
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if code < 0 {
				code = 1
			}
			return &ExitError{Code: code}
		}
		return dserrors.CommandError{
			Command:    strings.Join(options.Command, " "),
			Message:    err.Error(),
			Suggestion: "Check the command output above for details",
		}
	}

	return nil
}

// buildEnvironment merges vars into base ("KEY=value" entries). Unless
// allowOverride is set, vars replace existing entries. The result is sorted.
func buildEnvironment(base []string, vars map[string]string, allowOverride bool) []string {
	envMap := make(map[string]string, len(base)+len(vars))
	for _, env := range base {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	for key, value := range vars {
		if _, exists := envMap[key]; exists && allowOverride {
			continue
		}
		envMap[key] = value
	}

	result := make([]string, 0, len(envMap))
	for key, value := range envMap {
		result = append(result, key+"="+value)
	}
	sort.Strings(result)

	return result
}

// printEnvironment displays the variables with masked values
func printEnvironment(w io.Writer, environment map[string]string) {
	if len(environment) == 0 {
		_, _ = fmt.Fprintln(w, "No environment variables resolved")
		return
	}

	_, _ = fmt.Fprintf(w, "Resolved %d environment variables:\n", len(environment))

	for _, key := range sortedKeys(environment) {
		_, _ = fmt.Fprintf(w, "  %s=%s\n", key, maskValue(environment[key]))
	}
	_, _ = fmt.Fprintln(w)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// maskValue masks a secret value for display. Counts and slices are in runes
// so multi-byte values are never split mid-character.
func maskValue(value string) string {
	runes := []rune(value)
	n := len(runes)

	if n == 0 {
		return "(empty)"
	}

	if n <= 3 {
		return strings.Repeat("*", n)
	}

	// Show first and last characters for short values
	if n <= 8 {
		return string(runes[:1]) + strings.Repeat("*", n-2) + string(runes[n-1:])
	}

	return string(runes[:3]) + strings.Repeat("*", 8) + string(runes[n-2:])
}
