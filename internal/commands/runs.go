package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsynab/wsynab/internal/runlog"
)

func newRunsCommand(g *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent export runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}
			if cfg.Export.RunLog == "" {
				return fmt.Errorf("run log disabled: export.run_log is empty in %s", g.configPath)
			}
			runs, err := runlog.New(cfg.Export.RunLog).Recent(limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show, 0 for all")

	return cmd
}

func printRuns(out io.Writer, runs []runlog.Entry) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(out, "No export runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tSOURCE\tENTRIES\tSKIPPED\tOUTPUT")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.Timestamp.Local().Format(time.DateTime), r.Source, r.Entries, r.Skipped, r.Output)
	}
	return tw.Flush()
}
