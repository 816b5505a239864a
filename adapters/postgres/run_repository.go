// Package postgres persists run manifests to an optional ledger database so
// analysts can compare runs over time. The pipeline works fully without it.
package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"diapipe/domain/run"
	"diapipe/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS pipeline_runs (
	run_id        TEXT PRIMARY KEY,
	source_path   TEXT NOT NULL,
	source_hash   TEXT NOT NULL,
	seed          BIGINT NOT NULL,
	rows_ingested INTEGER NOT NULL,
	rows_dropped  INTEGER NOT NULL,
	rows_train    INTEGER NOT NULL,
	rows_test     INTEGER NOT NULL,
	best_c        DOUBLE PRECISION NOT NULL,
	test_accuracy DOUBLE PRECISION NOT NULL,
	code_version  TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
)`

// RunRepository stores run manifests in PostgreSQL.
type RunRepository struct {
	db *sqlx.DB
}

// Connect opens the ledger and ensures its schema.
func Connect(ctx context.Context, url string) (*RunRepository, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return &RunRepository{db: db}, nil
}

// Close releases the connection pool.
func (r *RunRepository) Close() error {
	return r.db.Close()
}

// SaveRun inserts one completed run.
func (r *RunRepository) SaveRun(ctx context.Context, m *run.Manifest) error {
	if err := m.Validate(); err != nil {
		return errors.WithCode(errors.CodeValidationError, err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pipeline_runs (
			run_id, source_path, source_hash, seed,
			rows_ingested, rows_dropped, rows_train, rows_test,
			best_c, test_accuracy, code_version, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, m.RunID.String(), m.SourcePath, m.SourceHash.String(), m.Seed,
		m.RowsIngested, m.RowsDropped, m.RowsTrain, m.RowsTest,
		m.BestC, m.TestAccuracy, m.CodeVersion, m.CreatedAt.Time())
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]run.Manifest, error) {
	var manifests []run.Manifest
	err := r.db.SelectContext(ctx, &manifests, `
		SELECT run_id, source_path, source_hash, seed,
		       rows_ingested, rows_dropped, rows_train, rows_test,
		       best_c, test_accuracy, code_version, created_at
		FROM pipeline_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return manifests, nil
}
