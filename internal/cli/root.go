// Package cli is the terminal front end of the sign-in form.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"reps-auth/internal/config"
	"reps-auth/internal/logger"
	"reps-auth/internal/signin"

	"github.com/spf13/cobra"
)

// ErrSignInFailed is returned after the failure was already shown.
var ErrSignInFailed = errors.New("sign-in failed")

var errInputEnded = errors.New("input ended before sign-in completed")

type options struct {
	email        string
	showPassword bool
	provider     string
	backend      string
}

// NewRootCmd builds the signin command. newBackend may be nil, in which
// case NewBackend is used.
func NewRootCmd(newBackend BackendFactory) *cobra.Command {
	if newBackend == nil {
		newBackend = NewBackend
	}
	var opts options

	cmd := &cobra.Command{
		Use:           "signin",
		Short:         "Sign in with email and password or an OAuth provider",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, newBackend)
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "", "email address; prompted when empty")
	cmd.Flags().BoolVar(&opts.showPassword, "show-password", false, "echo the password while typing")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "sign in with an OAuth provider instead (google, github)")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "identity backend: frontend or kratos (default from SIGNIN_BACKEND)")

	cmd.AddCommand(newProvidersCmd())
	return cmd
}

func newProvidersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List OAuth providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range signin.OAuthProviders() {
				fmt.Fprintf(w, "%s\t%s\n", p.Strategy.ProviderName(), p.Label)
			}
			return w.Flush()
		},
	}
}

func run(cmd *cobra.Command, opts options, newBackend BackendFactory) error {
	ctx := cmd.Context()
	out := printer{out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	if err := backend.Init(ctx); err != nil {
		logger.Error("identity provider unavailable", map[string]any{
			"backend": cfg.Backend,
			"error":   err.Error(),
		})
		out.Error("The sign-in service is unavailable. Please try again later.")
		return ErrSignInFailed
	}

	form := signin.NewForm(backend, terminalNavigator{backend: backend, print: out}, signin.Options{
		Timeout:             cfg.RequestTimeout,
		ExternalFlowTimeout: cfg.ExternalTimeout,
	})
	defer form.Close()

	if opts.provider != "" {
		return runOAuth(ctx, form, opts.provider, out)
	}

	if opts.showPassword {
		form.ToggleSecretVisible()
	}
	form.SetIdentifier(opts.email)

	return runCredentials(ctx, form, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), out)
}

func runOAuth(ctx context.Context, form *signin.Form, name string, out printer) error {
	strategy := signin.StrategyFor(name)

	// Ctrl+C abandons the browser flow instead of killing the process.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	out.Hint("Continue in your browser. Press Ctrl+C to cancel.")

	if form.Initiate(ctx, strategy) == signin.ResultAuthenticated {
		return nil
	}
	if msg := form.Error(); msg != "" {
		out.Error(msg)
		return ErrSignInFailed
	}
	return nil
}

// runCredentials prompts until the form authenticates or input ends.
// Blank answers are asked again without an error.
func runCredentials(ctx context.Context, form *signin.Form, p *prompter, out printer) error {
	for {
		for form.State().Identifier == "" {
			v, err := p.Line("Email: ")
			if err != nil {
				return inputEnded(err)
			}
			form.SetIdentifier(v)
		}

		v, err := p.Secret("Password: ", form.State().SecretVisible)
		if err != nil {
			return inputEnded(err)
		}
		form.SetSecret(v)

		if !form.Submittable() {
			continue
		}

		if form.Submit(ctx) == signin.ResultAuthenticated {
			return nil
		}
		if msg := form.Error(); msg != "" {
			out.Error(msg)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func inputEnded(err error) error {
	if errors.Is(err, io.EOF) {
		return errInputEnded
	}
	return err
}
