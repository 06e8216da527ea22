package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/recruiting-ops/funnel-cli/internal/db"
	"github.com/recruiting-ops/funnel-cli/internal/model"
)

// PostgresStore implements Store using pgxpool. Application rows are stored
// one per row as JSONB, bulk-loaded with COPY at import time.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS datasets (
	id                TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	name              TEXT NOT NULL,
	application_count INTEGER NOT NULL,
	candidate_count   INTEGER NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dataset_applications (
	dataset_id TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
	idx        INTEGER NOT NULL,
	row        JSONB NOT NULL,
	PRIMARY KEY (dataset_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_datasets_name ON datasets(name);
CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateDataset(ctx context.Context, name string, apps []model.Application, candidateCount int) (*Dataset, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO datasets (id, name, application_count, candidate_count, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, name, len(apps), candidateCount, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert dataset")
	}

	rows := make([][]any, len(apps))
	for i, app := range apps {
		rowJSON, err := json.Marshal(app)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: marshal application %d", i)
		}
		rows[i] = []any{id, i, rowJSON}
	}
	if _, err := db.CopyFrom(ctx, s.pool, "dataset_applications", []string{"dataset_id", "idx", "row"}, rows); err != nil {
		return nil, err
	}

	return &Dataset{
		ID:               id,
		Name:             name,
		ApplicationCount: len(apps),
		CandidateCount:   candidateCount,
		CreatedAt:        now,
	}, nil
}

func (s *PostgresStore) GetDataset(ctx context.Context, id string) (*Dataset, []model.Application, error) {
	var ds Dataset
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, application_count, candidate_count, created_at FROM datasets WHERE id = $1`,
		id,
	).Scan(&ds.ID, &ds.Name, &ds.ApplicationCount, &ds.CandidateCount, &ds.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, nil, eris.Wrapf(err, "postgres: get dataset %s", id)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT row FROM dataset_applications WHERE dataset_id = $1 ORDER BY idx`,
		id,
	)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "postgres: query applications %s", id)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var rowJSON []byte
		if err := rows.Scan(&rowJSON); err != nil {
			return nil, nil, eris.Wrap(err, "postgres: scan application row")
		}
		var app model.Application
		if err := json.Unmarshal(rowJSON, &app); err != nil {
			return nil, nil, eris.Wrap(err, "postgres: unmarshal application row")
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "postgres: iterate application rows")
	}
	return &ds, apps, nil
}

func (s *PostgresStore) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, application_count, candidate_count, created_at
		 FROM datasets ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list datasets")
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		var ds Dataset
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.ApplicationCount, &ds.CandidateCount, &ds.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan dataset row")
		}
		datasets = append(datasets, ds)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate datasets")
	}
	return datasets, nil
}

func (s *PostgresStore) DeleteDataset(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete dataset %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrDatasetNotFound
	}
	return nil
}
