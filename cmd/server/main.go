package main

import (
	"reps-auth/internal/logger"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Identity provider for reps sign-in",
		SilenceUsage:  true,
		SilenceErrors: true,
		// serve is the default so a bare `server` keeps working in containers
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newCreateUserCmd())
	return root
}

func main() {
	logger.Init()

	if err := newRootCmd().Execute(); err != nil {
		logger.Fatal("command failed", map[string]any{
			"error": err.Error(),
		})
	}
}
