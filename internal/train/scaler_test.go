package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diapipe/domain/core"
)

func fullMask(rows, cols int) [][]bool {
	mask := make([][]bool, rows)
	for i := range mask {
		mask[i] = make([]bool, cols)
		for j := range mask[i] {
			mask[i][j] = true
		}
	}
	return mask
}

func TestFitScalerStatistics(t *testing.T) {
	x := [][]float64{{2, 10}, {4, 10}, {6, 10}}
	s, err := FitScaler(x, fullMask(3, 2))
	require.NoError(t, err)

	assert.InDelta(t, 4, s.Means[0], 1e-12)
	assert.InDelta(t, 1.632993, s.Stds[0], 1e-6)

	// Zero-variance columns get unit scale instead of dividing by zero
	assert.InDelta(t, 10, s.Means[1], 1e-12)
	assert.Equal(t, 1.0, s.Stds[1])
}

func TestFitScalerIgnoresMissing(t *testing.T) {
	x := [][]float64{{2}, {0}, {6}}
	mask := [][]bool{{true}, {false}, {true}}

	s, err := FitScaler(x, mask)
	require.NoError(t, err)
	assert.InDelta(t, 4, s.Means[0], 1e-12)
	assert.InDelta(t, 2, s.Stds[0], 1e-12)
}

func TestFitScalerEmpty(t *testing.T) {
	_, err := FitScaler(nil, nil)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestTransformImputesMissingAtMean(t *testing.T) {
	x := [][]float64{{2}, {6}}
	s, err := FitScaler(x, fullMask(2, 1))
	require.NoError(t, err)

	out := s.Transform([][]float64{{2}, {0}}, [][]bool{{true}, {false}})
	assert.InDelta(t, -1, out[0][0], 1e-12)
	// A missing cell lands on the column mean, z = 0
	assert.Zero(t, out[1][0])
}

func TestTransformDoesNotMutateInput(t *testing.T) {
	x := [][]float64{{2}, {6}}
	s, err := FitScaler(x, fullMask(2, 1))
	require.NoError(t, err)

	s.Transform(x, fullMask(2, 1))
	assert.Equal(t, 2.0, x[0][0])
	assert.Equal(t, 6.0, x[1][0])
}
