package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/awnumar/memguard"
	"github.com/spf13/cobra"
	"github.com/systmms/vaultprovider-aws/cmd/vaultprovider-aws/commands"
	"github.com/systmms/vaultprovider-aws/internal/execenv"
	"github.com/systmms/vaultprovider-aws/internal/logging"
	"github.com/systmms/vaultprovider-aws/internal/metrics"
	"github.com/systmms/vaultprovider-aws/internal/providers"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := run(); err != nil {
		var exitErr *execenv.ExitError
		if errors.As(err, &exitErr) {
			// The child already reported its failure.
			memguard.SafeExit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		memguard.SafeExit(1)
	}
}

func run() error {
	opts := &commands.Options{
		Stdin:    os.Stdin,
		Recorder: metrics.New(),
	}

	var debug bool

	serveCtx, stopServing := context.WithCancel(context.Background())
	defer stopServing()

	rootCmd := &cobra.Command{
		Use:   "vaultprovider-aws",
		Short: "AWS Secrets Manager vault provider",
		Long: `vaultprovider-aws validates provider configurations and reads secrets from
AWS Secrets Manager using only the static credentials in the configuration.

Ambient AWS credentials (environment variables, shared config files, instance
roles) are never used.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := opts.LogLevel
			if debug {
				level = "debug"
			}
			opts.Logger = logging.NewWithOptions(logging.Options{
				Level:   level,
				Format:  opts.LogFormat,
				NoColor: opts.NoColor,
				Output:  cmd.ErrOrStderr(),
			})

			if opts.MetricsListen == "" {
				return nil
			}
			ln, err := net.Listen("tcp", opts.MetricsListen)
			if err != nil {
				return fmt.Errorf("listen for metrics on %s: %w", opts.MetricsListen, err)
			}
			opts.Logger.Info("Serving metrics on http://%s/metrics", ln.Addr())
			go func() {
				if err := opts.Recorder.Serve(serveCtx, ln); err != nil {
					opts.Logger.Warn("Metrics server stopped: %v", err)
				}
			}()
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Provider configuration file (JSON or YAML), or - for stdin")
	flags.StringVar(&opts.Provider, "provider", providers.AWSSecretsManagerType, "Provider type")
	flags.StringVar(&opts.Endpoint, "endpoint", "", "Override the AWS endpoint (LocalStack, testing)")
	flags.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Timeout for AWS calls")
	flags.StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.LogFormat, "log-format", "console", "Log format: console or json")
	flags.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&opts.DumpMetrics, "metrics", false, "Print Prometheus metrics to stderr after the command")
	flags.StringVar(&opts.MetricsListen, "metrics-listen", "", "Serve Prometheus metrics at http://<addr>/metrics while the command runs (e.g. 127.0.0.1:9091)")

	rootCmd.AddCommand(
		commands.NewValidateCommand(opts),
		commands.NewGetCommand(opts),
		commands.NewExecCommand(opts),
		commands.NewSchemaCommand(),
		commands.NewProvidersCommand(),
		commands.NewVersionCommand(version, commit, date),
	)

	err := rootCmd.Execute()
	stopServing()

	if opts.DumpMetrics {
		if werr := opts.Recorder.WriteText(os.Stderr); werr != nil && err == nil {
			err = werr
		}
	}

	return err
}
