package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	errUsage = errors.New("usage")
	// errFindings exits 1 quietly; the findings are already on stdout.
	errFindings = errors.New("diagnostic reported errors")
)

func Execute() int {
	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SetIn(os.Stdin)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return exitCode(root, root.ExecuteContext(ctx))
}

func exitCode(root *cobra.Command, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, errUsage) {
		return 2
	}
	if errors.Is(err, errFindings) {
		return 1
	}
	fmt.Fprintln(root.ErrOrStderr(), "ERROR:", err)
	if strings.HasPrefix(err.Error(), "unknown command") ||
		strings.HasPrefix(err.Error(), "unknown flag") ||
		strings.HasPrefix(err.Error(), "unknown shorthand flag") {
		_ = root.Help()
		return 2
	}
	return 1
}

type rootOptions struct {
	secrets string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "keydoctor",
		Short:         "Diagnose the ANTHROPIC_API_KEY stored in .streamlit/secrets.toml",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errUsage
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.secrets, "secrets", "", "Secrets file path (default $SECRETS_FILE or .streamlit/secrets.toml)")

	rootCmd.AddCommand(
		newCheckCmd(opts),
		newServeCmd(opts),
		newHistoryCmd(opts),
		newMigrateCmd(opts),
	)
	return rootCmd
}
