package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultprovider-aws/internal/providers"
)

func NewProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List available provider types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := providers.NewRegistry()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(w, "TYPE\tDESCRIPTION\n")
			_, _ = fmt.Fprintf(w, "----\t-----------\n")
			for _, providerType := range registry.GetSupportedTypes() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", providerType, getProviderDescription(providerType))
			}
			return w.Flush()
		},
	}
}

func getProviderDescription(providerType string) string {
	switch providerType {
	case providers.AWSSecretsManagerType:
		return "AWS Secrets Manager (static access key credentials)"
	default:
		return "Custom provider"
	}
}
