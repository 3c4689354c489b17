package main

import (
	"context"
	"os"

	"user-directory/cmd/api/app"
	"user-directory/cmd/api/server"
	"user-directory/internal/cli"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	root := cli.NewRootCmd(func(ctx context.Context) error {
		a, err := app.New(ctx, app.ConfigPath())
		if err != nil {
			return err
		}
		return a.Run(ctx)
	})

	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
