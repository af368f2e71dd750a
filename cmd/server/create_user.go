package main

import (
	"errors"
	"fmt"

	"reps-auth/internal/auth/credentials"
	"reps-auth/internal/config"
	"reps-auth/internal/db"
	"reps-auth/internal/logger"

	"github.com/spf13/cobra"
)

type createUserOptions struct {
	email        string
	password     string
	secondFactor bool
}

func newCreateUserCmd() *cobra.Command {
	var opts createUserOptions

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Provision a user with a password credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.email == "" {
				return errors.New("--email is required")
			}

			cfg, err := config.LoadServer()
			if err != nil {
				return err
			}

			database, err := db.Open(cmd.Context(), cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer database.Close()

			userID, err := credentials.NewService(database).Register(
				cmd.Context(),
				opts.email,
				opts.password,
				opts.secondFactor,
			)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			logger.Info("user created", map[string]any{
				"user_id":       userID,
				"second_factor": opts.secondFactor,
			})
			fmt.Fprintln(cmd.OutOrStdout(), userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "account email")
	cmd.Flags().StringVar(&opts.password, "password", "", fmt.Sprintf("account password (at least %d characters)", credentials.MinPasswordLength))
	cmd.Flags().BoolVar(&opts.secondFactor, "second-factor", false, "require a second factor, so password sign-in never completes")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
