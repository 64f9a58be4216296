package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/contactgraph/internal/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent merge runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		runs, err := st.ListRuns(ctx, runsLimit)
		if err != nil {
			return err
		}

		renderRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

func renderRuns(w io.Writer, runs []store.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs")
		return
	}
	fmt.Fprintf(w, "%-36s  %-20s  %8s  %6s  %8s\n", "RUN", "STARTED", "PEOPLE", "ORGS", "FINDINGS")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %8d  %6d  %8d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.People, r.Organizations, r.Findings)
	}
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum runs to list")
	rootCmd.AddCommand(runsCmd)
}
