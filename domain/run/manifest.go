package run

import (
	"fmt"

	"diapipe/domain/core"
)

// Manifest is the reproducibility record for one pipeline run. It must carry
// everything needed to replay the run: source identity, seed, and the
// headline results the report consumes.
type Manifest struct {
	RunID        core.RunID      `json:"run_id" db:"run_id"`
	SourcePath   string          `json:"source_path" db:"source_path"`
	SourceHash   core.SourceHash `json:"source_hash" db:"source_hash"`
	Seed         int64           `json:"seed" db:"seed"`
	RowsIngested int             `json:"rows_ingested" db:"rows_ingested"`
	RowsDropped  int             `json:"rows_dropped" db:"rows_dropped"`
	RowsTrain    int             `json:"rows_train" db:"rows_train"`
	RowsTest     int             `json:"rows_test" db:"rows_test"`
	BestC        float64         `json:"best_c" db:"best_c"`
	TestAccuracy float64         `json:"test_accuracy" db:"test_accuracy"`
	CodeVersion  string          `json:"code_version" db:"code_version"`
	CreatedAt    core.Timestamp  `json:"created_at" db:"created_at"`
}

// NewManifest creates a manifest stamped with a fresh run ID.
func NewManifest(sourcePath string, sourceHash core.SourceHash, seed int64, codeVersion string) *Manifest {
	return &Manifest{
		RunID:       core.RunID(core.NewID()),
		SourcePath:  sourcePath,
		SourceHash:  sourceHash,
		Seed:        seed,
		CodeVersion: codeVersion,
		CreatedAt:   core.Now(),
	}
}

// Validate checks that the manifest is complete enough to persist.
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return core.NewValidationError("manifest", "run_id cannot be empty")
	}
	if m.SourcePath == "" {
		return core.NewValidationError("manifest", "source_path cannot be empty")
	}
	if core.Hash(m.SourceHash).IsEmpty() {
		return core.NewValidationError("manifest", "source_hash cannot be empty")
	}
	return nil
}

// VerifySource recomputes the source fingerprint and confirms the file has
// not changed since the run started. The manifest must never vouch for data
// that was swapped out mid-run.
func (m *Manifest) VerifySource() error {
	h, err := core.HashFile(m.SourcePath)
	if err != nil {
		return err
	}
	if !h.Equals(core.Hash(m.SourceHash)) {
		return fmt.Errorf("%w: %s changed during the run", core.ErrHashMismatch, m.SourcePath)
	}
	return nil
}
