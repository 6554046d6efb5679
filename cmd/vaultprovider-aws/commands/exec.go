package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/execenv"
	"github.com/systmms/vaultprovider-aws/internal/secure"
)

func NewExecCommand(opts *Options) *cobra.Command {
	var (
		mappings      []string
		printVars     bool
		allowOverride bool
		workingDir    string
	)

	cmd := &cobra.Command{
		Use:   "exec --env NAME=secret [--env ...] -- <command> [args...]",
		Short: "Run a command with secrets in its environment",
		Long: `Fetch one or more secrets and run a command with them set as environment
variables. The values exist only in the child process environment.

Examples:
  # Run a server with its database password
  vaultprovider-aws exec --config provider.json --env DB_PASSWORD=prod/db/password -- ./server

  # Show which variables are set (values masked)
  vaultprovider-aws exec --config provider.json --env API_KEY=prod/api --print-vars -- env`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wanted, err := parseEnvMappings(mappings)
			if err != nil {
				return err
			}

			raw, err := readConfig(opts)
			if err != nil {
				return err
			}
			defer secure.Wipe(raw)

			factory, err := opts.factory()
			if err != nil {
				return err
			}

			provider, err := factory.Create(cmd.Context(), raw)
			if err != nil {
				return dserrors.ProviderError(opts.providerName(), "create", err)
			}

			ctx, cancel := opts.context(cmd.Context())
			defer cancel()

			environment := make(map[string]string, len(wanted))
			for _, m := range wanted {
				secret, err := provider.GetSecret(ctx, m.secret)
				if err != nil {
					return dserrors.ProviderError(opts.providerName(), "get", err)
				}
				environment[m.name] = secret.Value
			}

			return execenv.New(opts.Logger).Exec(cmd.Context(), execenv.ExecOptions{
				Command:       args,
				Environment:   environment,
				AllowOverride: allowOverride,
				PrintVars:     printVars,
				WorkingDir:    workingDir,
				Stdin:         cmd.InOrStdin(),
				Stdout:        cmd.OutOrStdout(),
				Stderr:        cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().StringArrayVar(&mappings, "env", nil, "Environment variable to set, as NAME=secret-name (repeatable)")
	cmd.Flags().BoolVar(&printVars, "print-vars", false, "Print variable names with masked values before running")
	cmd.Flags().BoolVar(&allowOverride, "allow-override", false, "Keep existing environment values instead of replacing them")
	cmd.Flags().StringVar(&workingDir, "working-dir", "", "Working directory for the command")

	return cmd
}

type envMapping struct {
	name   string
	secret string
}

func parseEnvMappings(mappings []string) ([]envMapping, error) {
	if len(mappings) == 0 {
		return nil, dserrors.UserError{
			Message:    "No secrets requested",
			Suggestion: "Use --env NAME=secret-name at least once",
		}
	}

	parsed := make([]envMapping, 0, len(mappings))
	seen := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		name, secret, ok := strings.Cut(m, "=")
		if !ok || name == "" || secret == "" {
			return nil, dserrors.ConfigError{
				Field:      "--env",
				Message:    fmt.Sprintf("invalid mapping %q", m),
				Suggestion: "Use NAME=secret-name, e.g. DB_PASSWORD=prod/db/password",
			}
		}
		if seen[name] {
			return nil, dserrors.ConfigError{
				Field:   "--env",
				Message: fmt.Sprintf("variable %s is mapped more than once", name),
			}
		}
		seen[name] = true
		parsed = append(parsed, envMapping{name: name, secret: secret})
	}
	return parsed, nil
}
