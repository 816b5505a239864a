// Package evaluate scores a fitted pipeline on the held-out test subset.
package evaluate

import (
	"diapipe/domain/clinical"
	"diapipe/domain/core"
	"diapipe/internal/train"
)

// Threshold on the positive-class probability for label assignment.
const Threshold = 0.5

// Confusion holds the 2x2 confusion counts.
type Confusion struct {
	TruePositive  int
	TrueNegative  int
	FalsePositive int
	FalseNegative int
}

// Total returns the number of scored rows.
func (c Confusion) Total() int {
	return c.TruePositive + c.TrueNegative + c.FalsePositive + c.FalseNegative
}

// RowPrediction pairs one test row with its prediction for downstream
// visualization.
type RowPrediction struct {
	TrueLabel      int
	PredictedLabel int
	Probability    float64
	Correct        bool
}

// Result is the evaluator output. Accuracy is derived from the confusion
// counts, so the two can never disagree.
type Result struct {
	Accuracy    float64
	Confusion   Confusion
	Predictions []RowPrediction
}

// Evaluate scores the pipeline on the test set. Neither argument is mutated.
func Evaluate(pipeline *train.FittedPipeline, testSet *clinical.Dataset) (*Result, error) {
	if testSet.Len() == 0 {
		return nil, core.ErrInsufficientData
	}

	x, mask := testSet.FeatureMatrix()
	y := testSet.Labels()
	proba := pipeline.PredictProba(x, mask)

	res := &Result{Predictions: make([]RowPrediction, len(y))}
	for i, p := range proba {
		pred := 0
		if p >= Threshold {
			pred = 1
		}
		switch {
		case pred == 1 && y[i] == 1:
			res.Confusion.TruePositive++
		case pred == 0 && y[i] == 0:
			res.Confusion.TrueNegative++
		case pred == 1 && y[i] == 0:
			res.Confusion.FalsePositive++
		default:
			res.Confusion.FalseNegative++
		}
		res.Predictions[i] = RowPrediction{
			TrueLabel:      y[i],
			PredictedLabel: pred,
			Probability:    p,
			Correct:        pred == y[i],
		}
	}

	res.Accuracy = float64(res.Confusion.TruePositive+res.Confusion.TrueNegative) / float64(res.Confusion.Total())
	return res, nil
}
