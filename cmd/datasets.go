package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/recruiting-ops/funnel-cli/internal/store"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage stored datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored datasets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		datasets, err := st.ListDatasets(ctx)
		if err != nil {
			return err
		}
		if len(datasets) == 0 {
			fmt.Fprintln(os.Stderr, "No datasets found.")
			return nil
		}

		formatDatasetsList(os.Stdout, datasets)
		return nil
	},
}

var datasetsDeleteCmd = &cobra.Command{
	Use:   "delete <dataset-id>",
	Short: "Delete a stored dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if err := st.DeleteDataset(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted dataset %s\n", args[0])
		return nil
	},
}

func formatDatasetsList(w io.Writer, datasets []store.Dataset) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAPPLICATIONS\tCANDIDATES\tCREATED")
	for _, ds := range datasets {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			ds.ID, ds.Name, ds.ApplicationCount, ds.CandidateCount,
			ds.CreatedAt.Format(time.RFC3339))
	}
	tw.Flush()
}

func init() {
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsDeleteCmd)
	rootCmd.AddCommand(datasetsCmd)
}
