package train

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"diapipe/domain/core"
)

// LogisticRegression is an L2-regularized linear classifier. C is the inverse
// regularization strength; smaller C regularizes harder. The intercept is not
// penalized.
type LogisticRegression struct {
	C             float64
	MaxIterations int

	Intercept float64
	Weights   []float64
}

// NewLogisticRegression creates an unfitted classifier.
func NewLogisticRegression(c float64, maxIterations int) *LogisticRegression {
	return &LogisticRegression{C: c, MaxIterations: maxIterations}
}

// Fit minimizes the penalized negative log-likelihood by L-BFGS. Exceeding the
// iteration budget without convergence is an error, never a best-effort fit.
func (m *LogisticRegression) Fit(x [][]float64, y []int) error {
	if len(x) == 0 || len(x) != len(y) {
		return core.ErrInsufficientData
	}
	p := len(x[0])

	// Labels as -1/+1 for the logistic loss
	t := make([]float64, len(y))
	for i, yi := range y {
		if yi == 1 {
			t[i] = 1
		} else {
			t[i] = -1
		}
	}

	lambda := 1.0 / m.C

	// w[0] is the intercept, w[1:] the feature weights
	objective := func(w []float64) float64 {
		var loss float64
		for i := range x {
			loss += logisticLoss(t[i] * decision(w, x[i]))
		}
		var penalty float64
		for j := 1; j <= p; j++ {
			penalty += w[j] * w[j]
		}
		return loss + 0.5*lambda*penalty
	}

	gradient := func(grad, w []float64) {
		for j := range grad {
			grad[j] = 0
		}
		for i := range x {
			// d/dz log(1+exp(-z)) = -sigmoid(-z)
			g := -t[i] * sigmoid(-t[i]*decision(w, x[i]))
			grad[0] += g
			for j := 0; j < p; j++ {
				grad[j+1] += g * x[i][j]
			}
		}
		for j := 1; j <= p; j++ {
			grad[j] += lambda * w[j]
		}
	}

	problem := optimize.Problem{Func: objective, Grad: gradient}
	settings := &optimize.Settings{
		MajorIterations:   m.MaxIterations,
		GradientThreshold: 1e-6,
	}

	w0 := make([]float64, p+1)
	result, err := optimize.Minimize(problem, w0, settings, &optimize.LBFGS{})
	if result != nil && result.Status == optimize.IterationLimit {
		return fmt.Errorf("%w: %d iterations", core.ErrNoConvergence, m.MaxIterations)
	}
	if err != nil {
		return fmt.Errorf("logistic fit failed: %w", err)
	}

	m.Intercept = result.X[0]
	m.Weights = append([]float64(nil), result.X[1:]...)
	return nil
}

// PredictProba returns the positive-class probability per row.
func (m *LogisticRegression) PredictProba(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		z := m.Intercept
		for j, w := range m.Weights {
			z += w * row[j]
		}
		out[i] = sigmoid(z)
	}
	return out
}

func decision(w []float64, row []float64) float64 {
	z := w[0]
	for j, v := range row {
		z += w[j+1] * v
	}
	return z
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// logisticLoss computes log(1+exp(-z)) without overflow for large |z|.
func logisticLoss(z float64) float64 {
	if z < -30 {
		return -z
	}
	if z > 30 {
		return math.Exp(-z)
	}
	return math.Log1p(math.Exp(-z))
}
