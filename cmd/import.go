package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rotisserie/eris"
)

var importCmd = &cobra.Command{
	Use:   "import <export-file>",
	Short: "Import a recruitment export into the dataset store",
	Long:  "Parses a CSV or XLSX export, resolves unique candidates, and stores the snapshot for later analysis.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		apps, err := readExport(ctx, path)
		if err != nil {
			return err
		}
		if len(apps) == 0 {
			return eris.Errorf("no application rows in %s", path)
		}

		pipe, err := initPipeline()
		if err != nil {
			return err
		}
		res := pipe.Run(apps)

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}

		ds, err := st.CreateDataset(ctx, name, apps, res.Metrics.UniqueCandidates)
		if err != nil {
			return err
		}

		zap.L().Info("import: dataset stored",
			zap.String("id", ds.ID),
			zap.String("name", ds.Name),
		)
		fmt.Fprintf(os.Stdout, "Imported %q: %d applications, %d unique candidates\nDataset ID: %s\n",
			ds.Name, ds.ApplicationCount, ds.CandidateCount, ds.ID)
		return nil
	},
}

func init() {
	importCmd.Flags().String("name", "", "dataset name (default: file name)")
	rootCmd.AddCommand(importCmd)
}
