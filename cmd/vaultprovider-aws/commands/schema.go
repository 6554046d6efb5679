package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/systmms/vaultprovider-aws/internal/config"
)

func NewSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the provider configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.AWSConfigSchema())
			return err
		},
	}
}
