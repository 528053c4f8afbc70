package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	dbfx "keydoctor/db/fx"
	"keydoctor/internal/envutil"
	"keydoctor/internal/history"
	historyfx "keydoctor/internal/history/fx"
)

func newHistoryCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent probe outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				_ = cmd.Help()
				return errUsage
			}

			var store *history.Store
			return withApp(cmd.Context(), root, func(ctx context.Context) error {
				recs, err := store.Recent(ctx, limit)
				if err != nil {
					return err
				}
				return printHistory(cmd.OutOrStdout(), recs)
			}, dbfx.Module, historyfx.Module, fx.Populate(&store))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", envutil.Int(os.Getenv, "KEYDOCTOR_HISTORY_LIMIT", history.DefaultLimit), "Number of records to show")
	return cmd
}

func printHistory(out io.Writer, recs []history.Record) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(out, "No probes recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tFINGERPRINT\tOUTCOME\tERROR\tDURATION")
	for _, r := range recs {
		kind := r.ErrorKind
		if kind == "" {
			kind = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.CreatedAt().Local().Format(time.DateTime),
			r.Fingerprint,
			r.Outcome,
			kind,
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
		)
	}
	return tw.Flush()
}
