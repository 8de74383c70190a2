package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sprout/pkg/errors"
	"github.com/matzehuels/sprout/pkg/lsystem"
)

// validateCommand creates the validate command that checks stack balance.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [sentence.txt]",
		Short: "Check that a sentence's push/pop symbols are balanced",
		Long: `Check that every pop in a text sentence has a matching push, on both the
pose stack and the polygon stack, and that nothing is left open at the end.

Use "-" to read the sentence from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := readSentence(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			pose, polygon := lsystem.Depths(s)
			if err := lsystem.Validate(s); err != nil {
				printError("%s", errors.UserMessage(err))
				return err
			}
			printSuccess("Balanced")
			printStats([]string{
				fmt.Sprintf("%d symbols", len(s)),
				fmt.Sprintf("pose depth %d", pose),
				fmt.Sprintf("polygon depth %d", polygon),
			}, false)
			return nil
		},
	}
}
