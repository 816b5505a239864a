package gate

import (
	"fmt"
	"math"
	"sort"

	"diapipe/domain/clinical"
	"diapipe/internal/summarize"
)

// Gate names, stable identifiers used in logs and result tables.
const (
	GateClassImbalance     = "class_imbalance"
	GateNullRatio          = "null_ratio"
	GateDuplicateRatio     = "duplicate_ratio"
	GateOutlierRatio       = "outlier_ratio"
	GateLabelCorrelation   = "feature_label_correlation"
	GateFeatureCorrelation = "feature_feature_correlation"
)

// ClassImbalanceGate requires the minority/majority ratio to stay above a
// configured floor.
type ClassImbalanceGate struct {
	Threshold float64
	Severity  Severity
}

func (g ClassImbalanceGate) Name() string { return GateClassImbalance }

func (g ClassImbalanceGate) Check(ds *clinical.Dataset) Result {
	neg, pos := ds.ClassCounts()
	minority, majority := float64(pos), float64(neg)
	if minority > majority {
		minority, majority = majority, minority
	}
	ratio := 0.0
	if majority > 0 {
		ratio = minority / majority
	}
	return Result{
		Gate:      g.Name(),
		Passed:    ratio >= g.Threshold,
		Severity:  g.Severity,
		Value:     ratio,
		Threshold: g.Threshold,
		Detail:    fmt.Sprintf("class counts negative=%d positive=%d, minority/majority=%.4f", neg, pos, ratio),
	}
}

// NullRatioGate caps the per-column missing fraction.
type NullRatioGate struct {
	Threshold float64
	Severity  Severity
}

func (g NullRatioGate) Name() string { return GateNullRatio }

func (g NullRatioGate) Check(ds *clinical.Dataset) Result {
	worst := 0.0
	var worstField clinical.Field
	for _, f := range clinical.AllFields {
		if rate := ds.MissingRate(f); rate > worst {
			worst = rate
			worstField = f
		}
	}
	return Result{
		Gate:      g.Name(),
		Passed:    worst <= g.Threshold,
		Severity:  g.Severity,
		Value:     worst,
		Threshold: g.Threshold,
		Detail:    fmt.Sprintf("highest missing rate %.4f in column %s", worst, worstField),
	}
}

// DuplicateRatioGate caps the fraction of exact-duplicate rows. The validator
// already de-duplicates, so on a cleaned dataset this measures residual risk
// of identical patients rather than data errors.
type DuplicateRatioGate struct {
	Threshold float64
	Severity  Severity
}

func (g DuplicateRatioGate) Name() string { return GateDuplicateRatio }

func (g DuplicateRatioGate) Check(ds *clinical.Dataset) Result {
	seen := make(map[string]bool, ds.Len())
	dups := 0
	for _, rec := range ds.Records {
		key := rec.Key()
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	ratio := 0.0
	if ds.Len() > 0 {
		ratio = float64(dups) / float64(ds.Len())
	}
	return Result{
		Gate:      g.Name(),
		Passed:    ratio <= g.Threshold,
		Severity:  g.Severity,
		Value:     ratio,
		Threshold: g.Threshold,
		Detail:    fmt.Sprintf("%d duplicate rows out of %d", dups, ds.Len()),
	}
}

// OutlierRatioGate caps the fraction of density-scored outlier samples.
// Rows are standardized per column, scored by mean distance to their k nearest
// neighbours, and flagged when the score clears the upper IQR fence.
type OutlierRatioGate struct {
	Threshold float64
	Severity  Severity
}

func (g OutlierRatioGate) Name() string { return GateOutlierRatio }

func (g OutlierRatioGate) Check(ds *clinical.Dataset) Result {
	scores := densityScores(ds)
	outliers := countFenceOutliers(scores)
	ratio := 0.0
	if len(scores) > 0 {
		ratio = float64(outliers) / float64(len(scores))
	}
	return Result{
		Gate:      g.Name(),
		Passed:    ratio <= g.Threshold,
		Severity:  g.Severity,
		Value:     ratio,
		Threshold: g.Threshold,
		Detail:    fmt.Sprintf("%d density-scored outliers out of %d samples", outliers, len(scores)),
	}
}

// LabelCorrelationGate caps the absolute Spearman correlation between any
// feature and the Outcome label. A near-perfect association means the feature
// leaks the label.
type LabelCorrelationGate struct {
	Threshold float64
	Severity  Severity
}

func (g LabelCorrelationGate) Name() string { return GateLabelCorrelation }

func (g LabelCorrelationGate) Check(ds *clinical.Dataset) Result {
	worst := 0.0
	var worstField clinical.Field
	for _, f := range clinical.FeatureFields {
		x, y := pairedWithLabel(ds, f)
		if rho := math.Abs(summarize.Spearman(x, y)); rho > worst {
			worst = rho
			worstField = f
		}
	}
	return Result{
		Gate:      g.Name(),
		Passed:    worst < g.Threshold,
		Severity:  g.Severity,
		Value:     worst,
		Threshold: g.Threshold,
		Detail:    fmt.Sprintf("max |spearman(feature, Outcome)| = %.4f at %s", worst, worstField),
	}
}

// FeatureCorrelationGate caps the absolute pairwise Spearman correlation
// between features. Zero tolerance: one pair at or above the ceiling fails.
type FeatureCorrelationGate struct {
	Threshold float64
	Severity  Severity
}

func (g FeatureCorrelationGate) Name() string { return GateFeatureCorrelation }

func (g FeatureCorrelationGate) Check(ds *clinical.Dataset) Result {
	m := summarize.Correlations(ds)
	worst := 0.0
	detail := "no feature pair exceeds the ceiling"
	for i := 0; i < len(m.Fields); i++ {
		for j := i + 1; j < len(m.Fields); j++ {
			if rho := math.Abs(m.Spearman[i][j]); rho > worst {
				worst = rho
				detail = fmt.Sprintf("max |spearman| = %.4f between %s and %s", rho, m.Fields[i], m.Fields[j])
			}
		}
	}
	return Result{
		Gate:      g.Name(),
		Passed:    worst < g.Threshold,
		Severity:  g.Severity,
		Value:     worst,
		Threshold: g.Threshold,
		Detail:    detail,
	}
}

// pairedWithLabel extracts rows where the feature is present, paired with the
// Outcome class.
func pairedWithLabel(ds *clinical.Dataset, f clinical.Field) (x, y []float64) {
	for _, rec := range ds.Records {
		c := rec.Cell(f)
		if c.Missing || c.Malformed {
			continue
		}
		x = append(x, c.Value)
		y = append(y, float64(rec.Label()))
	}
	return x, y
}

// densityScores computes the mean distance to the k nearest neighbours of
// each row in standardized feature space. Missing cells sit at the column
// mean (z = 0) so they neither attract nor repel.
func densityScores(ds *clinical.Dataset) []float64 {
	n := ds.Len()
	if n < 3 {
		return nil
	}
	z := standardizedMatrix(ds)

	k := 10
	if k > n-1 {
		k = n - 1
	}

	scores := make([]float64, n)
	dists := make([]float64, 0, n-1)
	for i := 0; i < n; i++ {
		dists = dists[:0]
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dists = append(dists, euclidean(z[i], z[j]))
		}
		scores[i] = meanOfSmallest(dists, k)
	}
	return scores
}

func standardizedMatrix(ds *clinical.Dataset) [][]float64 {
	x, mask := ds.FeatureMatrix()
	n := len(x)
	p := len(clinical.FeatureFields)

	z := make([][]float64, n)
	for i := range z {
		z[i] = make([]float64, p)
	}
	for j := 0; j < p; j++ {
		var sum, count float64
		for i := 0; i < n; i++ {
			if mask[i][j] {
				sum += x[i][j]
				count++
			}
		}
		if count == 0 {
			continue
		}
		mean := sum / count
		var ss float64
		for i := 0; i < n; i++ {
			if mask[i][j] {
				d := x[i][j] - mean
				ss += d * d
			}
		}
		std := math.Sqrt(ss / count)
		if std == 0 {
			continue
		}
		for i := 0; i < n; i++ {
			if mask[i][j] {
				z[i][j] = (x[i][j] - mean) / std
			}
		}
	}
	return z
}

func euclidean(a, b []float64) float64 {
	var ss float64
	for i := range a {
		d := a[i] - b[i]
		ss += d * d
	}
	return math.Sqrt(ss)
}

// meanOfSmallest averages the k smallest values via partial selection.
func meanOfSmallest(dists []float64, k int) float64 {
	if k <= 0 || len(dists) == 0 {
		return 0
	}
	// Selection sort only up to k, distances lists are short-lived
	for i := 0; i < k; i++ {
		minIdx := i
		for j := i + 1; j < len(dists); j++ {
			if dists[j] < dists[minIdx] {
				minIdx = j
			}
		}
		dists[i], dists[minIdx] = dists[minIdx], dists[i]
	}
	var sum float64
	for i := 0; i < k; i++ {
		sum += dists[i]
	}
	return sum / float64(k)
}

// countFenceOutliers flags scores above the Q75 + 1.5*IQR fence.
func countFenceOutliers(scores []float64) int {
	if len(scores) < 4 {
		return 0
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	q25 := quantileSorted(sorted, 0.25)
	q75 := quantileSorted(sorted, 0.75)
	fence := q75 + 1.5*(q75-q25)
	count := 0
	for _, s := range scores {
		if s > fence {
			count++
		}
	}
	return count
}

func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
