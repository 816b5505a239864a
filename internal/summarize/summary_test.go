package summarize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diapipe/domain/clinical"
)

func TestSummarizeKnownColumn(t *testing.T) {
	records := make([]clinical.Record, 5)
	for i, v := range []float64{60, 80, 100, 120, 140} {
		rec := baseRecord()
		rec.Glucose = clinical.NewCell(v)
		rec.Age = clinical.NewCell(float64(25 + i))
		records[i] = rec
	}
	ds := clinical.NewDataset("test", records)

	summaries, err := Summarize(ds)
	require.NoError(t, err)
	require.Len(t, summaries, len(clinical.AllFields))

	var glucose FieldSummary
	for _, s := range summaries {
		if s.Field == clinical.FieldGlucose {
			glucose = s
		}
	}
	assert.Equal(t, 5, glucose.Count)
	assert.Zero(t, glucose.Missing)
	assert.InDelta(t, 100, glucose.Mean, 1e-9)
	assert.InDelta(t, 60, glucose.Min, 1e-9)
	assert.InDelta(t, 140, glucose.Max, 1e-9)
	assert.InDelta(t, 100, glucose.Median, 1e-9)
	assert.InDelta(t, 0, glucose.Skewness, 1e-9)
}

func TestSummarizeCountsMissing(t *testing.T) {
	records := make([]clinical.Record, 4)
	for i := range records {
		records[i] = baseRecord()
		records[i].Age = clinical.NewCell(float64(30 + i))
	}
	records[1].Insulin = clinical.MissingCell()
	records[3].Insulin = clinical.MissingCell()
	ds := clinical.NewDataset("test", records)

	summaries, err := Summarize(ds)
	require.NoError(t, err)
	for _, s := range summaries {
		if s.Field == clinical.FieldInsulin {
			assert.Equal(t, 2, s.Count)
			assert.Equal(t, 2, s.Missing)
		}
	}
}

func TestSummarizeSparseColumnFallsBackToExtremes(t *testing.T) {
	// Two present Insulin values are too few for library percentiles; the
	// summary must still complete with the extremes as quartiles.
	records := make([]clinical.Record, 4)
	for i := range records {
		records[i] = baseRecord()
		records[i].Age = clinical.NewCell(float64(30 + i))
	}
	records[0].Insulin = clinical.NewCell(40)
	records[1].Insulin = clinical.MissingCell()
	records[2].Insulin = clinical.NewCell(80)
	records[3].Insulin = clinical.MissingCell()
	ds := clinical.NewDataset("test", records)

	summaries, err := Summarize(ds)
	require.NoError(t, err)
	for _, s := range summaries {
		if s.Field == clinical.FieldInsulin {
			assert.Equal(t, 2, s.Count)
			assert.InDelta(t, 40, s.Q25, 1e-12)
			assert.InDelta(t, 80, s.Q75, 1e-12)
		}
	}
}

func TestIQROutliers(t *testing.T) {
	data := []float64{10, 11, 12, 13, 14, 15, 16, 100}
	q25 := 11.75
	q75 := 15.25
	assert.Equal(t, 1, iqrOutliers(data, q25, q75))
}

func TestRanksWithTies(t *testing.T) {
	got := ranks([]float64{10, 20, 20, 30})
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, got)
}

func TestPearsonLinearRelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{3, 5, 7, 9, 11}
	assert.InDelta(t, 1.0, Pearson(x, y), 1e-12)
	assert.InDelta(t, -1.0, Pearson(x, []float64{11, 9, 7, 5, 3}), 1e-12)
}

func TestSpearmanMonotone(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	// Monotone but nonlinear: rank correlation is exactly 1
	y := []float64{1, 8, 27, 64, 125}
	assert.InDelta(t, 1.0, Spearman(x, y), 1e-12)
}

func TestSpearmanExactValue(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	// Rank displacement d = (1,1,2,0,0): rho = 1 - 6*6/(5*24) = 0.7
	y := []float64{2, 3, 1, 4, 5}
	assert.InDelta(t, 0.7, Spearman(x, y), 1e-12)
}

func TestCorrelationsMatrixShape(t *testing.T) {
	records := make([]clinical.Record, 20)
	for i := range records {
		rec := baseRecord()
		rec.Glucose = clinical.NewCell(float64(80 + i*3))
		rec.BMI = clinical.NewCell(20 + float64(i)*0.5)
		rec.Age = clinical.NewCell(float64(25 + i))
		records[i] = rec
	}
	ds := clinical.NewDataset("test", records)

	m := Correlations(ds)
	n := len(clinical.FeatureFields)
	require.Len(t, m.Pearson, n)
	require.Len(t, m.Spearman, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, 1.0, m.Pearson[i][i])
		assert.Equal(t, 1.0, m.Spearman[i][i])
		for j := 0; j < n; j++ {
			assert.Equal(t, m.Pearson[i][j], m.Pearson[j][i])
			assert.Equal(t, m.Spearman[i][j], m.Spearman[j][i])
		}
	}

	// Glucose, BMI and Age all increase together here
	gi, bi := fieldIndex(m, clinical.FieldGlucose), fieldIndex(m, clinical.FieldBMI)
	assert.InDelta(t, 1.0, m.Spearman[gi][bi], 1e-12)
}

func TestCorrelationConstantColumnIsZero(t *testing.T) {
	constant := []float64{5, 5, 5, 5, 5}
	varying := []float64{1, 2, 3, 4, 5}
	assert.Zero(t, Pearson(constant, varying))
	assert.Zero(t, Spearman(constant, varying))
}

func TestCorrelationsMatrixStaysFinite(t *testing.T) {
	// A constant BMI column must not poison the matrix with NaN
	records := make([]clinical.Record, 10)
	for i := range records {
		rec := baseRecord()
		rec.Glucose = clinical.NewCell(float64(80 + i*5))
		rec.BMI = clinical.NewCell(27.1)
		rec.Age = clinical.NewCell(float64(25 + i))
		records[i] = rec
	}
	ds := clinical.NewDataset("test", records)

	m := Correlations(ds)
	gi, bi := fieldIndex(m, clinical.FieldGlucose), fieldIndex(m, clinical.FieldBMI)
	assert.Zero(t, m.Pearson[gi][bi])
	assert.Zero(t, m.Spearman[gi][bi])
	for i := range m.Fields {
		for j := range m.Fields {
			assert.False(t, math.IsNaN(m.Pearson[i][j]))
			assert.False(t, math.IsNaN(m.Spearman[i][j]))
		}
	}
}

func fieldIndex(m *CorrelationMatrix, f clinical.Field) int {
	for i, mf := range m.Fields {
		if mf == f {
			return i
		}
	}
	return -1
}

func baseRecord() clinical.Record {
	var rec clinical.Record
	rec.Pregnancies = clinical.NewCell(2)
	rec.Glucose = clinical.NewCell(110)
	rec.BloodPressure = clinical.NewCell(72)
	rec.SkinThickness = clinical.NewCell(24)
	rec.Insulin = clinical.NewCell(90)
	rec.BMI = clinical.NewCell(27.1)
	rec.Pedigree = clinical.NewCell(0.38)
	rec.Age = clinical.NewCell(33)
	rec.Outcome = clinical.NewCell(0)
	return rec
}
