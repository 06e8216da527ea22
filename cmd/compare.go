package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/recruiting-ops/funnel-cli/internal/analytics"
	"github.com/recruiting-ops/funnel-cli/internal/model"
)

var compareCmd = &cobra.Command{
	Use:   "compare [export-file]",
	Short: "Compare funnel metrics across filtered segments",
	Long:  "Evaluates the funnel for each named filter in a YAML comparison file side by side. Reads an export file, or a stored dataset via --dataset.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		configPath, _ := cmd.Flags().GetString("filters")
		if configPath == "" {
			return eris.New("--filters is required")
		}
		filters, err := loadComparisonFilters(configPath)
		if err != nil {
			return err
		}

		datasetID, _ := cmd.Flags().GetString("dataset")
		if (len(args) == 0) == (datasetID == "") {
			return eris.New("provide either an export file or --dataset")
		}

		var apps []model.Application
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

		results, err := pipe.Analyze(apps).Compare(ctx, filters)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		formatComparison(os.Stdout, results)
		return nil
	},
}

// loadComparisonFilters reads named filters from a YAML file shaped as
//
//	comparisons:
//	  - name: Instagram
//	    filter:
//	      sources: [Instagram]
func loadComparisonFilters(path string) ([]analytics.NamedFilter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read comparison file %s", path)
	}

	var doc struct {
		Comparisons []analytics.NamedFilter `yaml:"comparisons"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "parse comparison file %s", path)
	}
	if len(doc.Comparisons) == 0 {
		return nil, eris.Errorf("no comparisons defined in %s", path)
	}
	return doc.Comparisons, nil
}

func formatComparison(w io.Writer, results []analytics.ComparisonResult) {
	for _, res := range results {
		fmt.Fprintf(w, "%s (%s)\n", res.Name, res.FilterDescription)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, sc := range res.Funnel.Funnel {
			fmt.Fprintf(tw, "  %s\t%d\n", sc.Stage, sc.Count)
		}
		tw.Flush()
		fmt.Fprintf(w, "  Hire rate: %.1f%% overall, %.1f%% of qualified\n\n",
			res.Summary.OverallHireRate, res.Summary.HireRateFromQualified)
	}
}

func init() {
	compareCmd.Flags().String("filters", "", "YAML file with named comparison filters")
	compareCmd.Flags().String("dataset", "", "compare a stored dataset by ID")
	compareCmd.Flags().Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(compareCmd)
}
