// Package artifact persists every pipeline output: the violation log, derived
// dataset CSVs, flat result tables for the report renderer, the serialized
// model blob, and the run manifest.
package artifact

import (
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"diapipe/domain/clinical"
	"diapipe/domain/validation"
	"diapipe/internal/train"
)

// Canonical artifact file names.
const (
	FileValidationLog = "validation.log"
	FileCleaned       = "cleaned.csv"
	FileTrain         = "train.csv"
	FileTest          = "test.csv"
	FileModel         = "model.gob"
	FileManifest      = "manifest.json"
	FileWorkbook      = "results.xlsx"

	FileSummary     = "summary_stats.csv"
	FileCorrelation = "correlations.csv"
	FileGates       = "gate_results.csv"
	FileBaseline    = "baseline_scores.csv"
	FileCVResults   = "cv_results.csv"
	FileBestParams  = "best_params.csv"
	FileCoeffs      = "coefficients.csv"
	FileAccuracy    = "test_accuracy.csv"
	FileConfusion   = "confusion_matrix.csv"
	FilePredictions = "predictions.csv"
)

// Store writes artifacts under one output directory, each file written once
// per run (the violation log appends).
type Store struct {
	dir string
}

// NewStore creates the output directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// Path resolves an artifact file name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// WriteDataset persists a dataset as CSV with the canonical column order,
// preserving the source tokens of every cell.
func (s *Store) WriteDataset(name string, ds *clinical.Dataset) error {
	f, err := os.Create(s.Path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, len(clinical.AllFields))
	for i, field := range clinical.AllFields {
		header[i] = string(field)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range ds.Records {
		row := make([]string, len(clinical.AllFields))
		for i, field := range clinical.AllFields {
			row[i] = rec.Cell(field).Text()
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// WriteTable persists one flat result table.
func (s *Store) WriteTable(name string, t Table) error {
	f, err := os.Create(s.Path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// AppendViolations appends one timestamped human-readable line per violation
// to the validation log. The log survives across runs; it is never truncated.
func (s *Store) AppendViolations(report *validation.Report) error {
	f, err := os.OpenFile(s.Path(FileValidationLog), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	now := time.Now().Format(time.RFC3339)
	for _, v := range report.Violations {
		if _, err := fmt.Fprintf(f, "%s %s\n", now, v.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteModel serializes the fitted pipeline as an opaque gob blob.
func (s *Store) WriteModel(p *train.FittedPipeline) error {
	f, err := os.Create(s.Path(FileModel))
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(p)
}

// ReadModel loads a previously written pipeline blob.
func (s *Store) ReadModel() (*train.FittedPipeline, error) {
	f, err := os.Open(s.Path(FileModel))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var p train.FittedPipeline
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteJSON persists a JSON artifact (the run manifest).
func (s *Store) WriteJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(name), append(data, '\n'), 0o644)
}
