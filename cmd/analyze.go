package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/recruiting-ops/funnel-cli/internal/analytics"
	"github.com/recruiting-ops/funnel-cli/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [export-file]",
	Short: "Analyze a recruitment export or stored dataset",
	Long:  "Runs deduplication and funnel classification, then prints summary metrics, the funnel, source performance, and age distribution. Reads an export file, or a stored dataset via --dataset.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		datasetID, _ := cmd.Flags().GetString("dataset")
		if (len(args) == 0) == (datasetID == "") {
			return eris.New("provide either an export file or --dataset")
		}

		var apps []model.Application
		var err error
		if datasetID != "" {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			_, apps, err = st.GetDataset(ctx, datasetID)
			if err != nil {
				return err
			}
		} else {
			apps, err = readExport(ctx, args[0])
			if err != nil {
				return err
			}
		}

		pipe, err := initPipeline()
		if err != nil {
			return err
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		a := pipe.Analyze(apps)
		report := a.Report(filter.Apply(a.Candidates))

		if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return eris.Wrapf(err, "create output file %s", outPath)
			}
			defer f.Close() //nolint:errcheck
			enc := json.NewEncoder(f)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		formatReport(os.Stdout, report)
		return nil
	},
}

// filterFromFlags builds a FilterSpec from the shared filter flags.
func filterFromFlags(cmd *cobra.Command) (analytics.FilterSpec, error) {
	var f analytics.FilterSpec
	f.Sources, _ = cmd.Flags().GetStringSlice("source")
	f.JobTitles, _ = cmd.Flags().GetStringSlice("job-title")

	dateType, _ := cmd.Flags().GetString("date-type")
	f.DateType = analytics.DateRangeType(dateType)
	f.DateValues, _ = cmd.Flags().GetStringSlice("date-value")

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from != "" || to != "" {
		start, err := time.Parse("2006-01-02", from)
		if err != nil {
			return f, eris.Wrapf(err, "parse --from %q", from)
		}
		end, err := time.Parse("2006-01-02", to)
		if err != nil {
			return f, eris.Wrapf(err, "parse --to %q", to)
		}
		f.DateType = analytics.DateRangeCustom
		f.CustomStart = &start
		f.CustomEnd = &end
	}
	return f, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("source", nil, "restrict to application sources")
	cmd.Flags().StringSlice("job-title", nil, "restrict to job titles (substring match)")
	cmd.Flags().String("date-type", "", "date bucket to filter on: week, month, quarter, year")
	cmd.Flags().StringSlice("date-value", nil, "date bucket values, e.g. 2024-03 or 2024Q1")
	cmd.Flags().String("from", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "custom range end (YYYY-MM-DD)")
}

func formatReport(w io.Writer, r analytics.Report) {
	fmt.Fprintln(w, "Summary")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Applications\t%d\n", r.Summary.TotalApplications)
	fmt.Fprintf(tw, "  Unique candidates\t%d\n", r.Summary.UniqueCandidates)
	fmt.Fprintf(tw, "  Duplicates\t%d\n", r.Summary.DuplicateApplications)
	fmt.Fprintf(tw, "  Apps per candidate\t%.2f\n", r.Summary.ApplicationsPerCandidate)
	fmt.Fprintf(tw, "  Qualified\t%d (%.1f%%)\n", r.Summary.QualifiedCandidates, r.Summary.QualificationRate)
	fmt.Fprintf(tw, "  Unqualified\t%d (%.1f%%)\n", r.Summary.TotalUnqualified, r.Summary.UnqualifiedRate)
	fmt.Fprintf(tw, "  Hired\t%d (%.1f%% overall, %.1f%% of qualified)\n",
		r.Summary.TotalHired, r.Summary.OverallHireRate, r.Summary.HireRateFromQualified)
	fmt.Fprintf(tw, "  Avg age\t%.1f\n", r.Summary.AvgAge)
	tw.Flush()

	fmt.Fprintln(w, "\nFunnel (qualified candidates)")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, sc := range r.Funnel.Funnel {
		fmt.Fprintf(tw, "  %s\t%d\n", sc.Stage, sc.Count)
	}
	tw.Flush()

	if len(r.Funnel.Conversions) > 0 {
		fmt.Fprintln(w, "\nConversions")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, c := range r.Funnel.Conversions {
			fmt.Fprintf(tw, "  %s to %s\t%.2f%%\n", c.From, c.To, c.Rate)
		}
		tw.Flush()
	}

	if len(r.SourcePerformance) > 0 {
		fmt.Fprintln(w, "\nSources")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  SOURCE\tCANDIDATES\tQUALIFIED\tHIRED\tHIRE RATE\tAVG IQ")
		for _, s := range r.SourcePerformance {
			fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\t%.1f%%\t%.1f\n",
				s.Source, s.UniqueCandidates, s.QualifiedCandidates, s.Hired, s.HireRate, s.AvgIQScore)
		}
		tw.Flush()
	}

	if len(r.AgeDistribution) > 0 {
		fmt.Fprintln(w, "\nAge distribution")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  AGE\tCANDIDATES\tUNQUALIFIED\tHIRED\tHIRE RATE")
		for _, a := range r.AgeDistribution {
			fmt.Fprintf(tw, "  %s\t%d\t%d\t%d\t%.1f%%\n",
				a.AgeGroup, a.TotalCandidates, a.Unqualified, a.Hired, a.HireRate)
		}
		tw.Flush()
	}
}

func init() {
	analyzeCmd.Flags().String("dataset", "", "analyze a stored dataset by ID")
	analyzeCmd.Flags().Bool("json", false, "print the full report as JSON")
	analyzeCmd.Flags().String("output", "", "write the JSON report to a file")
	addFilterFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)
}
