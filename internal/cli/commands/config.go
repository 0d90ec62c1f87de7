package commands

import (
	"fmt"

	"github.com/leapstack-labs/gotemplate/internal/cli/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
GOTEMPLATE_* environment variables and flags, as YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetConfig(cmd.Context())

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}

			out := cmd.OutOrStdout()
			if path := config.GetConfigFileUsed(); path != "" {
				_, _ = fmt.Fprintf(out, "# config file: %s\n", path)
			}
			_, err = out.Write(data)
			return err
		},
	}
}
