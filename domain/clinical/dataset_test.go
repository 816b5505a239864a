package clinical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDataset(n int) *Dataset {
	records := make([]Record, n)
	for i := range records {
		rec := sampleRecord()
		rec.SetCell(FieldAge, NewCell(float64(20+i)))
		if i%3 == 0 {
			rec.SetCell(FieldOutcome, NewCell(1))
		}
		records[i] = rec
	}
	return NewDataset("test", records)
}

func TestDatasetSubsetPreservesOrder(t *testing.T) {
	ds := buildDataset(5)
	sub := ds.Subset([]int{4, 0, 2})

	require.Equal(t, 3, sub.Len())
	assert.Equal(t, 24.0, sub.Records[0].Age.Value)
	assert.Equal(t, 20.0, sub.Records[1].Age.Value)
	assert.Equal(t, 22.0, sub.Records[2].Age.Value)
	assert.Equal(t, ds.Source, sub.Source)
}

func TestDatasetClassCounts(t *testing.T) {
	ds := buildDataset(6)
	neg, pos := ds.ClassCounts()
	assert.Equal(t, 4, neg)
	assert.Equal(t, 2, pos)
}

func TestDatasetMissingRate(t *testing.T) {
	ds := buildDataset(4)
	ds.Records[0].Insulin = MissingCell()
	ds.Records[2].Insulin = MalformedCell("x")

	assert.InDelta(t, 0.5, ds.MissingRate(FieldInsulin), 1e-12)
	assert.Zero(t, ds.MissingRate(FieldAge))
}

func TestDatasetColumnSkipsAbsent(t *testing.T) {
	ds := buildDataset(4)
	ds.Records[1].Glucose = MissingCell()

	values, rows := ds.Column(FieldGlucose)
	require.Len(t, values, 3)
	assert.Equal(t, []int{0, 2, 3}, rows)
}

func TestDatasetFingerprint(t *testing.T) {
	a := buildDataset(10)
	b := buildDataset(10)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	// Row order is part of the identity
	c := a.Subset([]int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0})
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
