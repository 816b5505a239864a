package train

import (
	"math"

	"diapipe/domain/core"
)

// Scaler standardizes features to zero mean and unit variance using
// statistics computed strictly from the data it was fit on. Missing cells are
// imputed at the column mean, which standardizes to zero.
type Scaler struct {
	Means []float64
	Stds  []float64
}

// FitScaler computes per-column mean and standard deviation over present
// cells.
func FitScaler(x [][]float64, mask [][]bool) (*Scaler, error) {
	if len(x) == 0 {
		return nil, core.ErrInsufficientData
	}
	p := len(x[0])
	s := &Scaler{
		Means: make([]float64, p),
		Stds:  make([]float64, p),
	}
	for j := 0; j < p; j++ {
		var sum, count float64
		for i := range x {
			if mask[i][j] {
				sum += x[i][j]
				count++
			}
		}
		if count == 0 {
			s.Stds[j] = 1
			continue
		}
		mean := sum / count
		var ss float64
		for i := range x {
			if mask[i][j] {
				d := x[i][j] - mean
				ss += d * d
			}
		}
		std := math.Sqrt(ss / count)
		if std == 0 {
			std = 1
		}
		s.Means[j] = mean
		s.Stds[j] = std
	}
	return s, nil
}

// Transform standardizes a matrix with the fitted statistics. The input is
// never mutated.
func (s *Scaler) Transform(x [][]float64, mask [][]bool) [][]float64 {
	out := make([][]float64, len(x))
	for i := range x {
		row := make([]float64, len(s.Means))
		for j := range s.Means {
			if mask[i][j] {
				row[j] = (x[i][j] - s.Means[j]) / s.Stds[j]
			}
		}
		out[i] = row
	}
	return out
}
