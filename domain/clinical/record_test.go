package clinical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellText(t *testing.T) {
	assert.Equal(t, "5.5", NewCell(5.5).Text())
	assert.Equal(t, "", MissingCell().Text())
	assert.Equal(t, "abc", MalformedCell("abc").Text())

	c := NewCell(120)
	c.Raw = "120"
	assert.Equal(t, "120", c.Text())
}

func TestRecordCellRoundTrip(t *testing.T) {
	var rec Record
	for i, f := range AllFields {
		rec.SetCell(f, NewCell(float64(i)))
	}
	for i, f := range AllFields {
		assert.Equal(t, float64(i), rec.Cell(f).Value, string(f))
	}
}

func TestRecordAllMissing(t *testing.T) {
	var rec Record
	for _, f := range AllFields {
		rec.SetCell(f, MissingCell())
	}
	assert.True(t, rec.AllMissing())

	rec.SetCell(FieldAge, NewCell(33))
	assert.False(t, rec.AllMissing())
}

func TestRecordKey(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	assert.Equal(t, a.Key(), b.Key())

	b.SetCell(FieldGlucose, NewCell(121))
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestRecordFeaturesMask(t *testing.T) {
	rec := sampleRecord()
	rec.SetCell(FieldInsulin, MissingCell())

	vec, ok := rec.Features()
	require.Len(t, vec, len(FeatureFields))
	require.Len(t, ok, len(FeatureFields))
	for i, f := range FeatureFields {
		if f == FieldInsulin {
			assert.False(t, ok[i])
			assert.Zero(t, vec[i])
		} else {
			assert.True(t, ok[i], string(f))
		}
	}
}

func TestRecordLabel(t *testing.T) {
	rec := sampleRecord()
	rec.SetCell(FieldOutcome, NewCell(1))
	assert.Equal(t, 1, rec.Label())

	rec.SetCell(FieldOutcome, NewCell(0))
	assert.Equal(t, 0, rec.Label())
}

func sampleRecord() Record {
	var rec Record
	rec.Pregnancies = NewCell(2)
	rec.Glucose = NewCell(120)
	rec.BloodPressure = NewCell(70)
	rec.SkinThickness = NewCell(25)
	rec.Insulin = NewCell(80)
	rec.BMI = NewCell(28.4)
	rec.Pedigree = NewCell(0.42)
	rec.Age = NewCell(35)
	rec.Outcome = NewCell(0)
	return rec
}
