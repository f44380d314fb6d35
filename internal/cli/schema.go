package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the effective schema as YAML",
		Long: `Print the schema that completion and checks use, after configuration
is resolved. Without a configured schema this is the built-in one, which
makes a convenient starting point for a custom schema file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := loadEnvironment(cmd.Context(), global, nil)
			if err != nil {
				return err
			}

			data, err := env.schema.ToYAML()
			if err != nil {
				return fmt.Errorf("render schema: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
