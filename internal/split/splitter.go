// Package split partitions a cleaned dataset into disjoint train and test
// subsets with a deterministic seed.
package split

import (
	"math"
	"math/rand"

	"diapipe/domain/clinical"
	"diapipe/domain/core"
)

// Split is a row-disjoint partition of one dataset. TrainSet and TestSet
// together cover the input exactly.
type Split struct {
	TrainSet *clinical.Dataset
	TestSet  *clinical.Dataset
	Seed     int64
	Fraction float64
}

// Splitter assigns rows by a seeded shuffle. Identical seed and input always
// yield an identical partition.
type Splitter struct {
	seed     int64
	fraction float64
}

// NewSplitter creates a splitter with a train fraction in (0,1).
func NewSplitter(seed int64, trainFraction float64) *Splitter {
	return &Splitter{seed: seed, fraction: trainFraction}
}

// Partition splits the dataset. Partitions preserve the shuffled assignment
// order, so repeated runs are byte-identical.
func (s *Splitter) Partition(ds *clinical.Dataset) (*Split, error) {
	n := ds.Len()
	if n < 10 {
		return nil, core.ErrInsufficientData
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(s.seed))
	rng.Shuffle(n, func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})

	trainSize := int(math.Round(float64(n) * s.fraction))
	if trainSize < 1 {
		trainSize = 1
	}
	if trainSize >= n {
		trainSize = n - 1
	}

	return &Split{
		TrainSet: ds.Subset(indices[:trainSize]),
		TestSet:  ds.Subset(indices[trainSize:]),
		Seed:     s.seed,
		Fraction: s.fraction,
	}, nil
}
