package clinical

import (
	"strings"

	"diapipe/domain/core"
)

// Dataset is an ordered, read-only collection of records plus provenance.
// Stages never mutate a Dataset in place; each derives a new one.
type Dataset struct {
	Source  string
	Records []Record
}

// NewDataset creates a dataset with provenance.
func NewDataset(source string, records []Record) *Dataset {
	return &Dataset{Source: source, Records: records}
}

// Len returns the row count.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Subset derives a new dataset containing the rows at the given indices, in
// the given order.
func (d *Dataset) Subset(indices []int) *Dataset {
	rows := make([]Record, 0, len(indices))
	for _, i := range indices {
		rows = append(rows, d.Records[i])
	}
	return &Dataset{Source: d.Source, Records: rows}
}

// FeatureMatrix extracts the design matrix. The mask marks present,
// well-formed cells.
func (d *Dataset) FeatureMatrix() (x [][]float64, mask [][]bool) {
	x = make([][]float64, len(d.Records))
	mask = make([][]bool, len(d.Records))
	for i, r := range d.Records {
		x[i], mask[i] = r.Features()
	}
	return x, mask
}

// Labels extracts the Outcome column as integer classes.
func (d *Dataset) Labels() []int {
	y := make([]int, len(d.Records))
	for i, r := range d.Records {
		y[i] = r.Label()
	}
	return y
}

// Column returns the present values of one field along with the row indices
// they came from.
func (d *Dataset) Column(f Field) (values []float64, rows []int) {
	for i, r := range d.Records {
		c := r.Cell(f)
		if c.Missing || c.Malformed {
			continue
		}
		values = append(values, c.Value)
		rows = append(rows, i)
	}
	return values, rows
}

// MissingRate returns the fraction of absent or malformed cells in a column.
func (d *Dataset) MissingRate(f Field) float64 {
	if len(d.Records) == 0 {
		return 0
	}
	missing := 0
	for _, r := range d.Records {
		c := r.Cell(f)
		if c.Missing || c.Malformed {
			missing++
		}
	}
	return float64(missing) / float64(len(d.Records))
}

// ClassCounts tallies the Outcome classes.
func (d *Dataset) ClassCounts() (negative, positive int) {
	for _, r := range d.Records {
		if r.Label() == 1 {
			positive++
		} else {
			negative++
		}
	}
	return negative, positive
}

// Fingerprint hashes the canonical row keys, giving a content-addressed
// identity for determinism checks.
func (d *Dataset) Fingerprint() core.Hash {
	var b strings.Builder
	for _, r := range d.Records {
		b.WriteString(r.Key())
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}
