// Package ingest reads the fixed-schema cohort CSV into a clinical.Dataset.
//
// Ingestion is deliberately permissive about cell contents: empty cells become
// missing values and unparseable tokens are preserved as malformed cells so
// the validator can report them as type violations. Only structural problems
// (unreadable file, absent required column, zero data rows) fail here.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"diapipe/domain/clinical"
	"diapipe/domain/core"
)

// Reader loads a cohort CSV from disk.
type Reader struct {
	path string
}

// NewReader creates a reader for the given file.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Read parses the file into a Dataset.
func (r *Reader) Read() (*clinical.Dataset, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSourceUnusable, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSourceUnusable, err)
	}
	if len(rows) < 2 {
		return nil, core.NewStructuralError("ingest", "source must have a header row and at least one data row")
	}

	colIndex, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]clinical.Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		records = append(records, parseRow(rows[i], colIndex))
	}

	return clinical.NewDataset(r.path, records), nil
}

// mapHeader resolves every required column to its position.
func mapHeader(header []string) (map[clinical.Field]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[strings.TrimSpace(h)] = i
	}

	colIndex := make(map[clinical.Field]int, len(clinical.AllFields))
	for _, f := range clinical.AllFields {
		idx, ok := positions[string(f)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", core.ErrMissingColumn, f)
		}
		colIndex[f] = idx
	}
	return colIndex, nil
}

// parseRow converts one CSV row into a Record. Cells keep their raw token.
func parseRow(row []string, colIndex map[clinical.Field]int) clinical.Record {
	var rec clinical.Record
	for f, idx := range colIndex {
		if idx >= len(row) {
			rec.SetCell(f, clinical.MissingCell())
			continue
		}
		rec.SetCell(f, parseCell(strings.TrimSpace(row[idx])))
	}
	return rec
}

func parseCell(token string) clinical.Cell {
	if token == "" || strings.EqualFold(token, "na") || strings.EqualFold(token, "nan") {
		return clinical.MissingCell()
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return clinical.MalformedCell(token)
	}
	c := clinical.NewCell(v)
	c.Raw = token
	return c
}
