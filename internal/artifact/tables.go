package artifact

import (
	"fmt"
	"strconv"

	"diapipe/internal/evaluate"
	"diapipe/internal/gate"
	"diapipe/internal/summarize"
	"diapipe/internal/train"
)

// Table is one flat result table with a fixed column set, consumed verbatim by
// the report renderer.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

func f6(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
func g(v float64) string  { return strconv.FormatFloat(v, 'g', -1, 64) }

// SummaryTable lays out the per-field descriptive statistics.
func SummaryTable(summaries []summarize.FieldSummary) Table {
	t := Table{
		Name: FileSummary,
		Header: []string{
			"field", "count", "missing", "mean", "std", "min", "q25", "median", "q75", "max",
			"skewness", "kurtosis", "normality_p", "iqr_outliers",
		},
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, []string{
			string(s.Field),
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Missing),
			f6(s.Mean), f6(s.StdDev), f6(s.Min), f6(s.Q25), f6(s.Median), f6(s.Q75), f6(s.Max),
			f6(s.Skewness), f6(s.Kurtosis), f6(s.NormalityP),
			strconv.Itoa(s.IQROutliers),
		})
	}
	return t
}

// CorrelationTable flattens both correlation matrices into long form.
func CorrelationTable(m *summarize.CorrelationMatrix) Table {
	t := Table{
		Name:   FileCorrelation,
		Header: []string{"field_a", "field_b", "pearson", "spearman"},
	}
	for i := 0; i < len(m.Fields); i++ {
		for j := i + 1; j < len(m.Fields); j++ {
			t.Rows = append(t.Rows, []string{
				string(m.Fields[i]), string(m.Fields[j]),
				f6(m.Pearson[i][j]), f6(m.Spearman[i][j]),
			})
		}
	}
	return t
}

// GateTable records every quality-gate evaluation, passed or not.
func GateTable(results []gate.Result) Table {
	t := Table{
		Name:   FileGates,
		Header: []string{"gate", "passed", "severity", "value", "threshold", "detail"},
	}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{
			r.Gate,
			strconv.FormatBool(r.Passed),
			string(r.Severity),
			f6(r.Value), f6(r.Threshold),
			r.Detail,
		})
	}
	return t
}

// BaselineTable records the majority-class floor accuracy per fold.
func BaselineTable(b train.BaselineResult) Table {
	t := Table{
		Name:   FileBaseline,
		Header: []string{"fold", "accuracy"},
	}
	for i, s := range b.FoldScores {
		t.Rows = append(t.Rows, []string{strconv.Itoa(i), f6(s)})
	}
	t.Rows = append(t.Rows, []string{"mean", f6(b.MeanScore)})
	return t
}

// CVResultsTable records every search candidate with its fold scores.
func CVResultsTable(candidates []train.CandidateScore, bestIndex int) Table {
	t := Table{
		Name:   FileCVResults,
		Header: []string{"candidate", "C", "mean_test_score", "fold_scores", "selected"},
	}
	for _, c := range candidates {
		folds := ""
		for i, s := range c.FoldScores {
			if i > 0 {
				folds += ";"
			}
			folds += f6(s)
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(c.Index),
			g(c.C),
			f6(c.MeanScore),
			folds,
			strconv.FormatBool(c.Index == bestIndex),
		})
	}
	return t
}

// BestParamsTable records the selected hyperparameter and its score.
func BestParamsTable(res *train.Result) Table {
	return Table{
		Name:   FileBestParams,
		Header: []string{"parameter", "value", "mean_cv_score"},
		Rows: [][]string{
			{"C", g(res.BestC), f6(res.BestScore)},
		},
	}
}

// CoefficientTable records the fitted weights, intercept last.
func CoefficientTable(res *train.Result) Table {
	t := Table{
		Name:   FileCoeffs,
		Header: []string{"feature", "coefficient"},
	}
	for _, c := range res.Coefficients {
		t.Rows = append(t.Rows, []string{string(c.Field), f6(c.Value)})
	}
	t.Rows = append(t.Rows, []string{"intercept", f6(res.Intercept)})
	return t
}

// AccuracyTable records the held-out accuracy.
func AccuracyTable(res *evaluate.Result) Table {
	return Table{
		Name:   FileAccuracy,
		Header: []string{"accuracy"},
		Rows:   [][]string{{f6(res.Accuracy)}},
	}
}

// ConfusionTable lays out the 2x2 confusion counts.
func ConfusionTable(res *evaluate.Result) Table {
	c := res.Confusion
	return Table{
		Name:   FileConfusion,
		Header: []string{"", "predicted_0", "predicted_1"},
		Rows: [][]string{
			{"actual_0", strconv.Itoa(c.TrueNegative), strconv.Itoa(c.FalsePositive)},
			{"actual_1", strconv.Itoa(c.FalseNegative), strconv.Itoa(c.TruePositive)},
		},
	}
}

// PredictionTable records one row per test observation.
func PredictionTable(res *evaluate.Result) Table {
	t := Table{
		Name:   FilePredictions,
		Header: []string{"row", "y_test", "y_pred", "pred_correct", "y_pred_prob_1"},
	}
	for i, p := range res.Predictions {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(p.TrueLabel),
			strconv.Itoa(p.PredictedLabel),
			fmt.Sprintf("%t", p.Correct),
			f6(p.Probability),
		})
	}
	return t
}
