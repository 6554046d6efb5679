package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/secure"
)

func NewGetCommand(opts *Options) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "get <secret-name>",
		Short: "Get a single secret value",
		Long: `Fetch the current value of one secret and print it to stdout. By default
only the raw value is printed, making it suitable for scripting.

The secret name may be a friendly name or a full ARN.

Examples:
  # Get a single value
  vaultprovider-aws get --config provider.json prod/db/password

  # Get value with version in JSON format
  vaultprovider-aws get --config provider.json prod/db/password --json

  # Use in scripts
  export DB_PASSWORD=$(vaultprovider-aws get --config provider.json prod/db/password)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

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

			secret, err := provider.GetSecret(ctx, name)
			if err != nil {
				return dserrors.ProviderError(opts.providerName(), "get", err)
			}

			if jsonOutput {
				output := map[string]interface{}{
					"name":     name,
					"value":    secret.Value,
					"provider": provider.Name(),
				}
				if secret.Version != nil {
					output["version"] = *secret.Version
				}

				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(output); err != nil {
					return fmt.Errorf("failed to encode JSON: %w", err)
				}
				return nil
			}

			_, _ = fmt.Fprint(cmd.OutOrStdout(), secret.Value)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format with version")

	return cmd
}
