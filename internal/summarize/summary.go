// Package summarize computes the exploratory statistics consumed by the
// report: per-field descriptive summaries and pairwise correlation matrices.
// It is fed the training subset only and feeds nothing back into modeling.
package summarize

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"diapipe/domain/clinical"
)

// FieldSummary holds descriptive statistics for one column.
type FieldSummary struct {
	Field       clinical.Field
	Count       int
	Missing     int
	Mean        float64
	StdDev      float64
	Min         float64
	Max         float64
	Median      float64
	Q25         float64
	Q75         float64
	Skewness    float64
	Kurtosis    float64
	IsNormal    bool
	NormalityP  float64
	IQROutliers int
}

// Summarize computes descriptive statistics for every column of the dataset.
func Summarize(ds *clinical.Dataset) ([]FieldSummary, error) {
	summaries := make([]FieldSummary, 0, len(clinical.AllFields))
	for _, f := range clinical.AllFields {
		values, _ := ds.Column(f)
		s, err := summarizeColumn(f, values, ds.Len()-len(values))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func summarizeColumn(f clinical.Field, data []float64, missing int) (FieldSummary, error) {
	s := FieldSummary{Field: f, Count: len(data), Missing: missing}
	if len(data) == 0 {
		return s, nil
	}

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.Q25, s.Q75, err = quartiles(data, s.Min, s.Max); err != nil {
		return s, err
	}

	s.Skewness = sampleSkewness(data, s.Mean, s.StdDev)
	s.Kurtosis = sampleKurtosis(data, s.Mean, s.StdDev)
	s.IsNormal, s.NormalityP = testNormality(data, s.Mean, s.StdDev)
	s.IQROutliers = iqrOutliers(data, s.Q25, s.Q75)
	return s, nil
}

// quartiles returns the 25th and 75th percentiles. stats.Percentile rejects
// samples smaller than four, so tiny columns fall back to the sample extremes
// rather than failing the whole summary.
func quartiles(data []float64, min, max float64) (q25, q75 float64, err error) {
	if len(data) < 4 {
		return min, max, nil
	}
	if q25, err = stats.Percentile(data, 25); err != nil {
		return 0, 0, err
	}
	if q75, err = stats.Percentile(data, 75); err != nil {
		return 0, 0, err
	}
	return q25, q75, nil
}

// sampleSkewness computes the adjusted Fisher-Pearson coefficient of skewness.
func sampleSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}
	skew := sumCubed / n
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return skew * correction
}

// sampleKurtosis computes sample kurtosis with small-sample bias correction.
func sampleKurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sumFourth := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumFourth += d * d * d * d
	}
	kurtosis := sumFourth / n
	excess := kurtosis - 3
	correction := (n - 1) / ((n - 2) * (n - 3))
	excess = excess*correction + 6/(n+1)
	return excess + 3
}

// testNormality approximates a Shapiro-Wilk style normality test from the
// combined skewness/kurtosis statistic against a chi-squared reference.
func testNormality(data []float64, mean, stdDev float64) (isNormal bool, pValue float64) {
	if len(data) < 3 || stdDev == 0 {
		return false, 1.0
	}
	skewness := sampleSkewness(data, mean, stdDev)
	kurtosis := sampleKurtosis(data, mean, stdDev)

	testStat := math.Abs(skewness) + math.Abs(kurtosis-3)/2

	chiDist := distuv.ChiSquared{K: 2}
	pValue = 1 - chiDist.CDF(testStat*testStat)
	return pValue > 0.05, pValue
}

// iqrOutliers counts values beyond the 1.5*IQR fences.
func iqrOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr
	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}
