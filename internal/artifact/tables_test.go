package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diapipe/domain/clinical"
	"diapipe/internal/evaluate"
	"diapipe/internal/train"
)

func TestCVResultsTableMarksSelection(t *testing.T) {
	candidates := []train.CandidateScore{
		{Index: 0, C: 0.1, FoldScores: []float64{0.7, 0.72}, MeanScore: 0.71},
		{Index: 1, C: 10, FoldScores: []float64{0.74, 0.76}, MeanScore: 0.75},
	}
	table := CVResultsTable(candidates, 1)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "false", table.Rows[0][4])
	assert.Equal(t, "true", table.Rows[1][4])
	assert.Equal(t, "0.700000;0.720000", table.Rows[0][3])
}

func TestCoefficientTableEndsWithIntercept(t *testing.T) {
	res := &train.Result{
		Coefficients: []train.Coefficient{
			{Field: clinical.FieldGlucose, Value: 1.25},
			{Field: clinical.FieldBMI, Value: -0.5},
		},
		Intercept: 0.125,
	}
	table := CoefficientTable(res)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"Glucose", "1.250000"}, table.Rows[0])
	assert.Equal(t, []string{"intercept", "0.125000"}, table.Rows[2])
}

func TestConfusionTableLayout(t *testing.T) {
	res := &evaluate.Result{
		Confusion: evaluate.Confusion{TruePositive: 40, TrueNegative: 120, FalsePositive: 25, FalseNegative: 31},
	}
	table := ConfusionTable(res)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"actual_0", "120", "25"}, table.Rows[0])
	assert.Equal(t, []string{"actual_1", "31", "40"}, table.Rows[1])
}

func TestBaselineTableAppendsMeanRow(t *testing.T) {
	table := BaselineTable(train.BaselineResult{
		FoldScores: []float64{0.69, 0.71},
		MeanScore:  0.70,
	})
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"mean", "0.700000"}, table.Rows[2])
}

func TestPredictionTableColumns(t *testing.T) {
	res := &evaluate.Result{
		Predictions: []evaluate.RowPrediction{
			{TrueLabel: 1, PredictedLabel: 0, Probability: 0.31, Correct: false},
		},
	}
	table := PredictionTable(res)

	assert.Equal(t, []string{"row", "y_test", "y_pred", "pred_correct", "y_pred_prob_1"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"0", "1", "0", "false", "0.310000"}, table.Rows[0])
}
