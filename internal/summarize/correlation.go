package summarize

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"diapipe/domain/clinical"
)

// CorrelationMatrix holds the pairwise association structure of the feature
// columns, in the order of Fields.
type CorrelationMatrix struct {
	Fields   []clinical.Field
	Pearson  [][]float64
	Spearman [][]float64
}

// Correlations computes Pearson and Spearman matrices over the feature
// columns. Each pair uses pairwise-complete rows.
func Correlations(ds *clinical.Dataset) *CorrelationMatrix {
	fields := clinical.FeatureFields
	n := len(fields)

	m := &CorrelationMatrix{
		Fields:   fields,
		Pearson:  make([][]float64, n),
		Spearman: make([][]float64, n),
	}
	for i := range m.Pearson {
		m.Pearson[i] = make([]float64, n)
		m.Spearman[i] = make([]float64, n)
		m.Pearson[i][i] = 1
		m.Spearman[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			x, y := pairwiseComplete(ds, fields[i], fields[j])
			p := Pearson(x, y)
			s := Spearman(x, y)
			m.Pearson[i][j], m.Pearson[j][i] = p, p
			m.Spearman[i][j], m.Spearman[j][i] = s, s
		}
	}
	return m
}

// pairwiseComplete extracts the rows where both fields are present.
func pairwiseComplete(ds *clinical.Dataset, a, b clinical.Field) (x, y []float64) {
	for _, rec := range ds.Records {
		ca, cb := rec.Cell(a), rec.Cell(b)
		if ca.Missing || ca.Malformed || cb.Missing || cb.Malformed {
			continue
		}
		x = append(x, ca.Value)
		y = append(y, cb.Value)
	}
	return x, y
}

// Pearson computes the product-moment correlation of two equal-length samples.
// A zero-variance input has no defined correlation and reports 0.
func Pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 3 {
		return 0
	}
	return finiteOrZero(stat.Correlation(x, y, nil))
}

// Spearman computes the rank correlation of two equal-length samples. Ties
// receive their average rank, so the result matches Pearson on ranks. A
// zero-variance input reports 0.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 3 {
		return 0
	}
	return finiteOrZero(stat.Correlation(ranks(x), ranks(y), nil))
}

// finiteOrZero maps the NaN produced by a constant column to 0 so matrices
// stay finite and threshold comparisons never silently skip a pair.
func finiteOrZero(r float64) float64 {
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// ranks converts values to average ranks (1-based).
func ranks(data []float64) []float64 {
	n := len(data)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return data[idx[a]] < data[idx[b]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && data[idx[j+1]] == data[idx[i]] {
			j++
		}
		// Average rank across the tie group
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
