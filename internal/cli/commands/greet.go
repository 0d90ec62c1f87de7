// Package commands holds the gotemplate subcommands.
package commands

import (
	"github.com/leapstack-labs/gotemplate/internal/cli/config"
	"github.com/leapstack-labs/gotemplate/internal/greeter"
	"github.com/spf13/cobra"
)

// NewGreetCommand creates the greet command.
func NewGreetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "greet",
		Short: "Print the greeting",
		Long:  `Print the two-line greeting to standard output. This is what gotemplate does when run without a subcommand.`,
		Args:  cobra.NoArgs,
		RunE:  RunGreet,
	}
}

// RunGreet writes the greeting to the command's output stream.
func RunGreet(cmd *cobra.Command, _ []string) error {
	logger := config.GetLogger(cmd.Context())

	logger.Debug("greeting", "lines", len(greeter.Lines()))
	if err := greeter.Greet(cmd.OutOrStdout()); err != nil {
		return err
	}
	logger.Debug("greeting done")
	return nil
}
