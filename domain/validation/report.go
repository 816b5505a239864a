package validation

import (
	"fmt"

	"diapipe/domain/clinical"
)

// Violation records one broken constraint. It references the offending row by
// index only; it never owns the record.
type Violation struct {
	Row     int            `json:"row"`
	Field   clinical.Field `json:"field,omitempty"`
	Rule    string         `json:"rule"`
	Message string         `json:"message"`
}

// String renders the human-readable log line body for this violation.
func (v Violation) String() string {
	if v.Field != "" {
		return fmt.Sprintf("row %d: field %s violated rule %s: %s", v.Row, v.Field, v.Rule, v.Message)
	}
	return fmt.Sprintf("row %d: violated rule %s: %s", v.Row, v.Rule, v.Message)
}

// Report maps row indices to the constraints they violated.
type Report struct {
	Violations []Violation
	byRow      map[int][]Violation
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{byRow: make(map[int][]Violation)}
}

// Add appends a violation.
func (r *Report) Add(v Violation) {
	r.Violations = append(r.Violations, v)
	r.byRow[v.Row] = append(r.byRow[v.Row], v)
}

// Merge folds another report into this one.
func (r *Report) Merge(other *Report) {
	for _, v := range other.Violations {
		r.Add(v)
	}
}

// Row returns the violations recorded against one row.
func (r *Report) Row(idx int) []Violation {
	return r.byRow[idx]
}

// IsClean reports whether a row has zero violations.
func (r *Report) IsClean(idx int) bool {
	return len(r.byRow[idx]) == 0
}

// FlaggedRows returns the number of distinct rows with at least one violation.
func (r *Report) FlaggedRows() int {
	return len(r.byRow)
}

// Len returns the total violation count.
func (r *Report) Len() int {
	return len(r.Violations)
}
