// =============================================================================
// Order Export CLI - Root Command
// =============================================================================
//
// COBRA CLI STRUCTURE:
//   rootCmd (orderexport)
//   ├── runCmd (orderexport run)
//   └── versionCmd (orderexport version)
//
// Configuration comes from the environment (and .env), the same keys the HTTP
// server reads. Flags on 'run' override the output settings only.
// =============================================================================

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orderexport",
		Short: "Export upstream orders joined to items, with amounts in USD",
		Long: `orderexport fetches the items, orders and exchange-rate feeds, joins every
order to its item, converts amounts to USD, normalizes dates and writes the
result as a CSV or XLSX file.

Example Usage:
  orderexport run                          # Write exports/orders.csv
  orderexport run --format xlsx --out /tmp # Write /tmp/orders.xlsx
  orderexport version`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newRunCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
