package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS datasets`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDataset(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO datasets`).
		WithArgs(pgxmock.AnyArg(), "july export", 2, 2, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCopyFrom(pgx.Identifier{"dataset_applications"},
		[]string{"dataset_id", "idx", "row"}).
		WillReturnResult(2)

	ds, err := s.CreateDataset(context.Background(), "july export", sampleApps(), 2)
	require.NoError(t, err)
	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, 2, ds.ApplicationCount)
	assert.Equal(t, 2, ds.CandidateCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateDataset_EmptySkipsCopy(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO datasets`).
		WithArgs(pgxmock.AnyArg(), "empty", 0, 0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ds, err := s.CreateDataset(context.Background(), "empty", nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.ApplicationCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDataset(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, name, application_count, candidate_count, created_at FROM datasets WHERE id = \$1`).
		WithArgs("ds-1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "name", "application_count", "candidate_count", "created_at"}).
			AddRow("ds-1", "july export", 1, 1, now))
	mock.ExpectQuery(`SELECT row FROM dataset_applications WHERE dataset_id = \$1 ORDER BY idx`).
		WithArgs("ds-1").
		WillReturnRows(pgxmock.NewRows([]string{"row"}).
			AddRow([]byte(`{"name":"Jane Doe","status":"Applied"}`)))

	ds, apps, err := s.GetDataset(context.Background(), "ds-1")
	require.NoError(t, err)
	assert.Equal(t, "july export", ds.Name)
	require.Len(t, apps, 1)
	assert.Equal(t, "Jane Doe", apps[0].Name)
	assert.Equal(t, "Applied", apps[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDataset_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, name, application_count, candidate_count, created_at FROM datasets`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	_, _, err := s.GetDataset(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListDatasets(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, name, application_count, candidate_count, created_at\s+FROM datasets ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "name", "application_count", "candidate_count", "created_at"}).
			AddRow("ds-2", "second", 3, 2, now).
			AddRow("ds-1", "first", 5, 4, now.Add(-time.Hour)))

	list, err := s.ListDatasets(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Name)
	assert.Equal(t, 4, list[1].CandidateCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteDataset(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM datasets WHERE id = \$1`).
		WithArgs("ds-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, s.DeleteDataset(context.Background(), "ds-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DeleteDataset_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM datasets WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, s.DeleteDataset(context.Background(), "missing"), ErrDatasetNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
