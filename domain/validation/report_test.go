package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"diapipe/domain/clinical"
)

func TestReportTracksRows(t *testing.T) {
	r := NewReport()
	r.Add(Violation{Row: 2, Field: clinical.FieldGlucose, Rule: "range_check", Message: "too low"})
	r.Add(Violation{Row: 2, Rule: "duplicate_row", Message: "duplicate"})
	r.Add(Violation{Row: 5, Field: clinical.FieldAge, Rule: "required_field", Message: "missing"})

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 2, r.FlaggedRows())
	assert.Len(t, r.Row(2), 2)
	assert.False(t, r.IsClean(2))
	assert.True(t, r.IsClean(0))
}

func TestReportMerge(t *testing.T) {
	a := NewReport()
	a.Add(Violation{Row: 1, Rule: "all_missing_row", Message: "empty"})

	b := NewReport()
	b.Add(Violation{Row: 3, Rule: "duplicate_row", Message: "duplicate"})
	a.Merge(b)

	assert.Equal(t, 2, a.Len())
	assert.False(t, a.IsClean(3))
}

func TestViolationString(t *testing.T) {
	withField := Violation{Row: 4, Field: clinical.FieldBMI, Rule: "range_check", Message: "value 0 outside (0,65]"}
	assert.Equal(t, "row 4: field BMI violated rule range_check: value 0 outside (0,65]", withField.String())

	rowOnly := Violation{Row: 9, Rule: "duplicate_row", Message: "exact duplicate of row 3"}
	assert.Equal(t, "row 9: violated rule duplicate_row: exact duplicate of row 3", rowOnly.String())
}
