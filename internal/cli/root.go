// Package cli implements the userdir command line: serving the API and
// rendering seed files as sorted tables.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"user-directory/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ServeFunc runs the API servers until ctx is cancelled.
type ServeFunc func(ctx context.Context) error

// NewRootCmd creates the root command. serve backs the serve subcommand.
func NewRootCmd(serve ServeFunc) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "userdir",
		Short:        "userdir - a sortable directory of user records",
		Long:         "Manage user records over REST and gRPC, or render seed files as sorted tables.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output on stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewServeCommand(serve))
	cmd.AddCommand(NewTableCommand(opts))

	return cmd
}

// diagnosticLogger logs to stderr when verbose, and discards otherwise.
func (o *RootOptions) diagnosticLogger() (*zap.Logger, error) {
	if !o.Verbose {
		return zap.NewNop(), nil
	}
	return logger.NewWithConfig(logger.Config{
		Level:       "debug",
		Format:      "console",
		OutputPath:  "stderr",
		ServiceName: "userdir",
	})
}
