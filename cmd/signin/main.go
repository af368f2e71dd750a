package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"reps-auth/internal/cli"
	"reps-auth/internal/logger"
)

func main() {
	// diagnostics go to stderr, the prompts own stdout
	logger.SetOutputLevel(os.Stderr, slog.LevelError)

	if err := cli.NewRootCmd(nil).Execute(); err != nil {
		if !errors.Is(err, cli.ErrSignInFailed) {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		}
		os.Exit(1)
	}
}
