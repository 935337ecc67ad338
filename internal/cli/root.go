package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "cardscan",
	Short:         "Extract fields from Emirates ID card images",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI with ctx as the command context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
