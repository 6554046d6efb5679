package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/secure"
)

func NewValidateCommand(opts *Options) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a provider configuration and its credentials",
		Long: `Parse the provider configuration and ask AWS who the credentials belong to
(sts:GetCallerIdentity). Exits non-zero if the configuration is malformed or
AWS rejects the credentials.

Examples:
  # Validate a configuration file
  vaultprovider-aws validate --config provider.json

  # Only check the document, without contacting AWS
  vaultprovider-aws validate --config provider.yaml --offline

  # Read the configuration from stdin
  cat provider.json | vaultprovider-aws validate --config -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readConfig(opts)
			if err != nil {
				return err
			}
			defer secure.Wipe(raw)

			factory, err := opts.factory()
			if err != nil {
				return err
			}

			if offline {
				// Create parses without network I/O; it wipes its own copy.
				if _, err := factory.Create(cmd.Context(), append([]byte(nil), raw...)); err != nil {
					return dserrors.ProviderError(opts.providerName(), "validate", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is well formed")
				return nil
			}

			ctx, cancel := opts.context(cmd.Context())
			defer cancel()

			if err := factory.Validate(ctx, raw); err != nil {
				return dserrors.ProviderError(opts.providerName(), "validate", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid and AWS accepted the credentials")
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Check the configuration document only")

	return cmd
}
