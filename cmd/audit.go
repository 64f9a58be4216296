package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/contactgraph/internal/ingest"
	"github.com/sells-group/contactgraph/internal/merge"
)

var (
	auditThreshold int
	auditSources   string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run the merge engine and print collision findings only",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sources, err := resolveSources(auditSources)
		if err != nil {
			return err
		}

		records, err := ingest.LoadAll(ctx, sources)
		if err != nil {
			return err
		}

		threshold := cfg.Audit.SharedChannelThreshold
		if auditThreshold > 0 {
			threshold = auditThreshold
		}
		engine := merge.NewEngine(merge.Options{
			SharedChannelThreshold: threshold,
			ExtractConcurrency:     cfg.Merge.ExtractConcurrency,
		})
		res, err := engine.Run(ctx, records)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(res.Report.Findings) == 0 {
			fmt.Fprintln(out, "no findings")
			return nil
		}
		for _, f := range res.Report.Findings {
			fmt.Fprintf(out, "[%s] %s (%d): %v\n", f.Kind, f.Key, f.Count, f.Values)
		}
		return nil
	},
}

func init() {
	auditCmd.Flags().IntVar(&auditThreshold, "threshold", 0, "override shared-channel threshold")
	auditCmd.Flags().StringVar(&auditSources, "sources", "", "YAML source manifest overriding configured sources")
	rootCmd.AddCommand(auditCmd)
}
