package execenv

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/logging"
)

func createTestExecutor() *Executor {
	return New(logging.Nop())
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestMaskValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "(empty)"},
		{"single_char", "a", "*"},
		{"three_chars", "abc", "***"},
		{"four_chars", "abcd", "a**d"},
		{"eight_chars", "abcdefgh", "a******h"},
		{"nine_chars", "abcdefghi", "abc********hi"},
		{"long_value", "mysupersecretpassword", "mys********rd"},
		{"multibyte_short", "éèêë", "é**ë"},
		{"multibyte_three_runes", "éèê", "***"},
		{"multibyte_long", "überGeheimesßé", "übe********ßé"},
		{"emoji", "🔑secretvalue🔒", "🔑se********e🔒"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := maskValue(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestBuildEnvironment(t *testing.T) {
	t.Parallel()

	base := []string{"PATH=/usr/bin", "DB_PASSWORD=from-shell", "MALFORMED"}

	tests := []struct {
		name          string
		vars          map[string]string
		allowOverride bool
		want          []string
	}{
		{
			name: "adds_new_vars",
			vars: map[string]string{"API_KEY": "k"},
			want: []string{"API_KEY=k", "DB_PASSWORD=from-shell", "PATH=/usr/bin"},
		},
		{
			name: "fetched_value_wins_by_default",
			vars: map[string]string{"DB_PASSWORD": "shhh"},
			want: []string{"DB_PASSWORD=shhh", "PATH=/usr/bin"},
		},
		{
			name:          "existing_value_wins_with_allow_override",
			vars:          map[string]string{"DB_PASSWORD": "shhh", "API_KEY": "k"},
			allowOverride: true,
			want:          []string{"API_KEY=k", "DB_PASSWORD=from-shell", "PATH=/usr/bin"},
		},
		{
			name: "values_containing_equals",
			vars: map[string]string{"DSN": "user=app password=x"},
			want: []string{"DB_PASSWORD=from-shell", "DSN=user=app password=x", "PATH=/usr/bin"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, buildEnvironment(base, tt.vars, tt.allowOverride))
		})
	}
}

func TestPrintEnvironment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printEnvironment(&buf, map[string]string{"B_VAR": "mysupersecretpassword", "A_VAR": "abcd"})

	out := buf.String()
	assert.Contains(t, out, "Resolved 2 environment variables")
	assert.NotContains(t, out, "mysupersecretpassword")
	assert.Less(t, strings.Index(out, "A_VAR=a**d"), strings.Index(out, "B_VAR=mys********rd"))

	buf.Reset()
	printEnvironment(&buf, nil)
	assert.Contains(t, buf.String(), "No environment variables resolved")
}

func TestExecutor_Exec_EmptyCommand(t *testing.T) {
	t.Parallel()

	err := createTestExecutor().Exec(context.Background(), ExecOptions{})

	var userErr dserrors.UserError
	require.ErrorAs(t, err, &userErr)
	assert.Contains(t, userErr.Message, "No command specified")
}

func TestExecutor_Exec_CommandNotFound(t *testing.T) {
	t.Parallel()

	err := createTestExecutor().Exec(context.Background(), ExecOptions{
		Command: []string{"definitely-not-a-real-command-12345"},
	})

	var cmdErr dserrors.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Error(), "command not found")
}

func TestExecutor_Exec_PassesEnvironment(t *testing.T) {
	requireShell(t)
	t.Setenv("DB_PASSWORD", "from-shell")

	var stdout, stderr bytes.Buffer
	err := createTestExecutor().Exec(context.Background(), ExecOptions{
		Command:     []string{"sh", "-c", `printf '%s' "$DB_PASSWORD"`},
		Environment: map[string]string{"DB_PASSWORD": "shhh"},
		PrintVars:   true,
		Stdout:      &stdout,
		Stderr:      &stderr,
	})
	require.NoError(t, err)

	assert.Equal(t, "shhh", stdout.String())
	assert.Contains(t, stderr.String(), "DB_PASSWORD=s**h")
	assert.NotContains(t, stderr.String(), "shhh")
}

func TestExecutor_Exec_DebugLogRedactsValues(t *testing.T) {
	requireShell(t)

	var logs bytes.Buffer
	executor := New(logging.NewWithOptions(logging.Options{
		Level:  "debug",
		Format: "json",
		Output: &logs,
	}))

	err := executor.Exec(context.Background(), ExecOptions{
		Command:     []string{"sh", "-c", "true"},
		Environment: map[string]string{"API_KEY": "k3y-value", "DB_PASSWORD": "shhh"},
		Stdout:      &bytes.Buffer{},
		Stderr:      &bytes.Buffer{},
	})
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "Setting API_KEY=[REDACTED]")
	assert.Contains(t, out, "Setting DB_PASSWORD=[REDACTED]")
	assert.NotContains(t, out, "k3y-value")
	assert.NotContains(t, out, "shhh")
}

func TestExecutor_Exec_ExitCode(t *testing.T) {
	requireShell(t)

	err := createTestExecutor().Exec(context.Background(), ExecOptions{
		Command: []string{"sh", "-c", "exit 3"},
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "command exited with status 3", exitErr.Error())
}

func TestExecutor_Exec_WorkingDir(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	var stdout bytes.Buffer
	err := createTestExecutor().Exec(context.Background(), ExecOptions{
		Command:    []string{"sh", "-c", "pwd"},
		WorkingDir: dir,
		Stdout:     &stdout,
		Stderr:     &bytes.Buffer{},
	})
	require.NoError(t, err)
	assert.Contains(t, strings.TrimSpace(stdout.String()), dir[strings.LastIndex(dir, "/")+1:])
}
