package train

import (
	"math/rand"

	"diapipe/domain/core"
)

// Classifier is the minimal contract cross-validation needs.
type Classifier interface {
	Fit(x [][]float64, y []int) error
	PredictProba(x [][]float64) []float64
}

// KFoldIndices deterministically shuffles row indices and slices them into k
// contiguous folds. The same rng state always produces the same folds.
func KFoldIndices(n, k int, rng *rand.Rand) [][]int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	folds := make([][]int, k)
	for i, idx := range indices {
		f := i % k
		folds[f] = append(folds[f], idx)
	}
	return folds
}

// crossValScores evaluates a classifier factory over precomputed folds.
// For each fold the pipeline is standardized and fit on the remaining rows
// only, then scored by accuracy at the 0.5 threshold on the held-out fold.
func crossValScores(factory func() Classifier, x [][]float64, mask [][]bool, y []int, folds [][]int) ([]float64, error) {
	scores := make([]float64, len(folds))
	for f, holdout := range folds {
		inFold := make([]bool, len(x))
		for _, i := range holdout {
			inFold[i] = true
		}

		var trainX, valX [][]float64
		var trainMask, valMask [][]bool
		var trainY, valY []int
		for i := range x {
			if inFold[i] {
				valX = append(valX, x[i])
				valMask = append(valMask, mask[i])
				valY = append(valY, y[i])
			} else {
				trainX = append(trainX, x[i])
				trainMask = append(trainMask, mask[i])
				trainY = append(trainY, y[i])
			}
		}
		if len(trainX) == 0 || len(valX) == 0 {
			return nil, core.ErrInsufficientData
		}

		scaler, err := FitScaler(trainX, trainMask)
		if err != nil {
			return nil, err
		}
		clf := factory()
		if err := clf.Fit(scaler.Transform(trainX, trainMask), trainY); err != nil {
			return nil, err
		}

		proba := clf.PredictProba(scaler.Transform(valX, valMask))
		correct := 0
		for i, p := range proba {
			pred := 0
			if p >= 0.5 {
				pred = 1
			}
			if pred == valY[i] {
				correct++
			}
		}
		scores[f] = float64(correct) / float64(len(valY))
	}
	return scores, nil
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
