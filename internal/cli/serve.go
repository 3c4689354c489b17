package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand(serve ServeFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST and gRPC servers",
		Long: `Run the REST and gRPC servers until interrupted.

Configuration is read from app.env in $CONFIG_PATH (default: the working
directory) and from the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if serve == nil {
				return errors.New("serve is not available in this build")
			}
			return serve(cmd.Context())
		},
	}
}
