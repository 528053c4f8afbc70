package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	appfx "keydoctor/internal/app/fx"
	"keydoctor/internal/diagnose"
	"keydoctor/internal/envutil"
	"keydoctor/internal/ui"
)

var confirmPrompt = ui.HuhConfirm

func newCheckCmd(root *rootOptions) *cobra.Command {
	var (
		probe       bool
		interactive bool
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the API key diagnostic in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var runner *diagnose.Runner

			console := ui.NewConsole(cmd.OutOrStdout())
			console.AutoClick = probe
			if interactive {
				console.Confirm = confirmPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			err := withApp(cmd.Context(), root, func(ctx context.Context) error {
				runner.Run(ctx, console)
				return nil
			}, appfx.DiagnoseOptions, fx.Populate(&runner))
			if err != nil {
				return err
			}

			if strict && console.Errors() > 0 {
				return errFindings
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", envutil.Bool(os.Getenv, "KEYDOCTOR_PROBE", false), "Press the test button: make one live API call")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Ask before making the live API call")
	cmd.Flags().BoolVar(&strict, "strict", envutil.Bool(os.Getenv, "KEYDOCTOR_STRICT", false), "Exit 1 when any check reports an error")
	cmd.MarkFlagsMutuallyExclusive("probe", "interactive")

	return cmd
}
