package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/recruiting-ops/funnel-cli/internal/ingest"
	"github.com/recruiting-ops/funnel-cli/internal/model"
	"github.com/recruiting-ops/funnel-cli/internal/pipeline"
	"github.com/recruiting-ops/funnel-cli/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "funnel.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initPipeline() (*pipeline.Pipeline, error) {
	return pipeline.FromConfig(cfg.Analytics)
}

// readExport parses an export file by extension: .xlsx workbooks, anything
// else as CSV.
func readExport(ctx context.Context, path string) ([]model.Application, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ingest.ReadXLSX(path, "")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open export %s", path)
	}
	defer f.Close()
	return ingest.ReadCSV(ctx, f)
}
