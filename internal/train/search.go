package train

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"golang.org/x/sync/semaphore"
)

// CandidateScore records one randomized-search candidate and its
// cross-validated accuracy.
type CandidateScore struct {
	Index      int
	C          float64
	FoldScores []float64
	MeanScore  float64
}

// sampleCandidates draws C values log-uniformly from [cMin, cMax].
func sampleCandidates(rng *rand.Rand, iters int, cMin, cMax float64) []float64 {
	loMin, loMax := math.Log10(cMin), math.Log10(cMax)
	out := make([]float64, iters)
	for i := range out {
		out[i] = math.Pow(10, loMin+(loMax-loMin)*rng.Float64())
	}
	return out
}

// searchC evaluates every candidate under k-fold cross-validation, bounded to
// `parallelism` concurrent evaluations. Results are keyed by candidate index
// and the winner is picked by a sequential scan, so parallel execution always
// selects the same C as sequential execution: best mean score, first-found on
// ties.
func searchC(
	ctx context.Context,
	candidates []float64,
	x [][]float64,
	mask [][]bool,
	y []int,
	folds [][]int,
	maxIterations int,
	parallelism int64,
) ([]CandidateScore, int, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	sem := semaphore.NewWeighted(parallelism)

	scores := make([]CandidateScore, len(candidates))
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup

	for idx, c := range candidates {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Drain in-flight evaluations before surfacing the error so no
			// goroutine outlives the call
			wg.Wait()
			return nil, 0, err
		}
		wg.Add(1)
		go func(idx int, c float64) {
			defer sem.Release(1)
			defer wg.Done()

			foldScores, err := crossValScores(func() Classifier {
				return NewLogisticRegression(c, maxIterations)
			}, x, mask, y, folds)
			if err != nil {
				errs[idx] = err
				return
			}
			scores[idx] = CandidateScore{
				Index:      idx,
				C:          c,
				FoldScores: foldScores,
				MeanScore:  mean(foldScores),
			}
		}(idx, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, 0, err
		}
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i].MeanScore > scores[best].MeanScore {
			best = i
		}
	}
	return scores, best, nil
}
