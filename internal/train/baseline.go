package train

import (
	"diapipe/domain/core"
)

// MajorityClassifier always predicts the majority class of its training data.
// It exists to establish the floor accuracy any real model must beat.
type MajorityClassifier struct {
	Class int
	Prior float64 // positive-class frequency in the training data
}

// Fit records the majority class.
func (m *MajorityClassifier) Fit(x [][]float64, y []int) error {
	if len(y) == 0 {
		return core.ErrInsufficientData
	}
	pos := 0
	for _, yi := range y {
		if yi == 1 {
			pos++
		}
	}
	m.Prior = float64(pos) / float64(len(y))
	if pos*2 > len(y) {
		m.Class = 1
	} else {
		m.Class = 0
	}
	return nil
}

// PredictProba returns the constant positive-class prior for every row.
func (m *MajorityClassifier) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i := range out {
		out[i] = m.Prior
	}
	return out
}
