package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. Application rows
// are stored as one JSON blob per dataset.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS datasets (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	applications      TEXT NOT NULL,
	application_count INTEGER NOT NULL,
	candidate_count   INTEGER NOT NULL,
	created_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_datasets_name ON datasets(name);
CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateDataset(ctx context.Context, name string, apps []model.Application, candidateCount int) (*Dataset, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	appsJSON, err := json.Marshal(apps)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal applications")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO datasets (id, name, applications, application_count, candidate_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, string(appsJSON), len(apps), candidateCount, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert dataset")
	}

	return &Dataset{
		ID:               id,
		Name:             name,
		ApplicationCount: len(apps),
		CandidateCount:   candidateCount,
		CreatedAt:        now,
	}, nil
}

func (s *SQLiteStore) GetDataset(ctx context.Context, id string) (*Dataset, []model.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, applications, application_count, candidate_count, created_at
		 FROM datasets WHERE id = ?`,
		id,
	)

	var ds Dataset
	var appsJSON string
	err := row.Scan(&ds.ID, &ds.Name, &appsJSON, &ds.ApplicationCount, &ds.CandidateCount, &ds.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: scan dataset")
	}

	var apps []model.Application
	if err := json.Unmarshal([]byte(appsJSON), &apps); err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: unmarshal applications")
	}
	return &ds, apps, nil
}

func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, application_count, candidate_count, created_at
		 FROM datasets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list datasets")
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		var ds Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.ApplicationCount, &ds.CandidateCount, &ds.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan dataset row")
		}
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate datasets")
	}
	return datasets, nil
}

func (s *SQLiteStore) DeleteDataset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete dataset %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrDatasetNotFound
	}
	return nil
}
