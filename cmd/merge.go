package main

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contactgraph/internal/ingest"
	"github.com/sells-group/contactgraph/internal/merge"
	"github.com/sells-group/contactgraph/internal/model"
	"github.com/sells-group/contactgraph/internal/store"
)

var (
	mergeDryRun  bool
	mergeRunID   string
	mergeLimit   int
	mergeSources string
)

// resolveSources returns the manifest sources when --sources is set,
// otherwise the configured ones.
func resolveSources(manifest string) ([]ingest.Source, error) {
	if manifest != "" {
		return ingest.LoadManifest(manifest)
	}
	if len(cfg.Sources) == 0 {
		return nil, eris.New("no sources configured (see config.yaml sources)")
	}
	return cfg.Sources, nil
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge all configured sources into a canonical entity graph",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sources, err := resolveSources(mergeSources)
		if err != nil {
			return err
		}

		records, err := ingest.LoadAll(ctx, sources)
		if err != nil {
			return err
		}
		if mergeLimit > 0 && len(records) > mergeLimit {
			records = records[:mergeLimit]
			zap.L().Info("record limit applied", zap.Int("limit", mergeLimit))
		}

		engine := merge.NewEngine(merge.Options{
			SharedChannelThreshold: cfg.Audit.SharedChannelThreshold,
			ExtractConcurrency:     cfg.Merge.ExtractConcurrency,
		})
		res, err := engine.Run(ctx, records)
		if err != nil {
			return err
		}

		renderReport(cmd.OutOrStdout(), &res.Report)

		if mergeDryRun {
			zap.L().Info("dry run, skipping persistence")
			return nil
		}

		runID := mergeRunID
		if runID == "" {
			runID = uuid.NewString()
		}

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveRun(ctx, &store.Run{
			ID:        runID,
			StartedAt: time.Now().UTC(),
			Graph:     res.Graph,
			Report:    res.Report,
		}); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "run %s saved\n", runID)
		return nil
	},
}

// renderReport writes the human-readable run summary.
func renderReport(w io.Writer, r *model.MergeReport) {
	fmt.Fprintln(w, "sources:")
	for _, s := range r.Sources {
		fmt.Fprintf(w, "  %-20s %6d records  %6d slots\n", s.SourceID, s.Records, s.Slots)
	}

	fmt.Fprintln(w, "entities (created/merged):")
	counts := []struct {
		name string
		c    model.EntityCounts
	}{
		{"people", r.People},
		{"organizations", r.Organizations},
		{"phones", r.Phones},
		{"emails", r.Emails},
		{"linkedin profiles", r.LinkedIns},
		{"properties", r.Properties},
	}
	for _, row := range counts {
		fmt.Fprintf(w, "  %-20s %6d / %d\n", row.name, row.c.Created, row.c.Merged)
	}

	fmt.Fprintf(w, "skipped records: %d, empty slots: %d, nameless slots: %d\n",
		r.SkippedRecords, r.EmptySlots, r.NamelessSlots)
	if r.ConflictedCompanyEmails > 0 {
		fmt.Fprintf(w, "conflicted company emails: %d\n", r.ConflictedCompanyEmails)
	}

	if len(r.Findings) == 0 {
		fmt.Fprintln(w, "findings: none")
		return
	}
	fmt.Fprintf(w, "findings: %d\n", len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(w, "  [%s] %s (%d): %v\n", f.Kind, f.Key, f.Count, f.Values)
	}
}

func init() {
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "run the engine and print the report without persisting")
	mergeCmd.Flags().StringVar(&mergeRunID, "run-id", "", "run id to save under (default: random UUID)")
	mergeCmd.Flags().IntVar(&mergeLimit, "limit", 0, "process at most N records (0 = all)")
	mergeCmd.Flags().StringVar(&mergeSources, "sources", "", "YAML source manifest overriding configured sources")
	rootCmd.AddCommand(mergeCmd)
}
