// Package store persists uploaded recruitment datasets. A dataset is an
// immutable snapshot of one export: its raw application rows plus summary
// counts captured at import time. Two backends are provided, SQLite for
// local single-user runs and PostgreSQL for the shared server deployment.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// ErrDatasetNotFound is returned by Get and Delete for unknown dataset IDs.
var ErrDatasetNotFound = eris.New("store: dataset not found")

// Dataset is the stored metadata for one imported export.
type Dataset struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ApplicationCount int       `json:"application_count"`
	CandidateCount   int       `json:"candidate_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store defines the persistence interface for datasets.
type Store interface {
	// CreateDataset snapshots the given applications under a new ID.
	// candidateCount is the resolved unique-candidate count, computed by
	// the caller at import time.
	CreateDataset(ctx context.Context, name string, apps []model.Application, candidateCount int) (*Dataset, error)
	GetDataset(ctx context.Context, id string) (*Dataset, []model.Application, error)
	ListDatasets(ctx context.Context) ([]Dataset, error)
	DeleteDataset(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}
