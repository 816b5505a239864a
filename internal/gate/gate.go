// Package gate applies the pre-modeling data-quality checks. Every check is a
// Gate: it inspects the cleaned dataset against one threshold and returns a
// pass/fail result with a diagnostic payload. The runner applies the gates in
// order and turns the first hard failure into a fatal pipeline error; soft
// failures are surfaced as warnings only.
package gate

import (
	"errors"
	"fmt"

	"diapipe/domain/clinical"
	"diapipe/domain/core"
)

// Severity distinguishes blocking thresholds from advisory ones.
type Severity string

const (
	SeverityHard Severity = "hard"
	SeveritySoft Severity = "soft"
)

// Result is the diagnostic payload of one gate evaluation.
type Result struct {
	Gate      string   `json:"gate"`
	Passed    bool     `json:"passed"`
	Severity  Severity `json:"severity"`
	Value     float64  `json:"value"`
	Threshold float64  `json:"threshold"`
	Detail    string   `json:"detail"`
}

// Gate is one named data-quality check with a pass/fail threshold.
type Gate interface {
	Name() string
	Check(ds *clinical.Dataset) Result
}

// Config defines the gate thresholds and their severities.
type Config struct {
	MinClassRatio     float64
	MaxNullRatio      float64
	MaxDuplicateRatio float64
	MaxOutlierRatio   float64
	MaxLabelCorr      float64
	MaxFeatureCorr    float64
	ImbalanceHard     bool
	LabelCorrHard     bool
	FeatureCorrHard   bool
}

// DefaultConfig returns the reference thresholds. Feature-feature correlation
// is zero tolerance at 0.70: a single pair at or above the ceiling blocks the
// run.
func DefaultConfig() Config {
	return Config{
		MinClassRatio:     0.10,
		MaxNullRatio:      0.50,
		MaxDuplicateRatio: 0.0,
		MaxOutlierRatio:   0.05,
		MaxLabelCorr:      0.90,
		MaxFeatureCorr:    0.70,
		ImbalanceHard:     true,
		LabelCorrHard:     true,
		FeatureCorrHard:   true,
	}
}

// Runner applies a fixed list of gates.
type Runner struct {
	gates []Gate
}

// NewRunner builds the standard gate list for a config.
func NewRunner(cfg Config) *Runner {
	softOrHard := func(hard bool) Severity {
		if hard {
			return SeverityHard
		}
		return SeveritySoft
	}
	return &Runner{gates: []Gate{
		ClassImbalanceGate{Threshold: cfg.MinClassRatio, Severity: softOrHard(cfg.ImbalanceHard)},
		NullRatioGate{Threshold: cfg.MaxNullRatio, Severity: SeveritySoft},
		DuplicateRatioGate{Threshold: cfg.MaxDuplicateRatio, Severity: SeveritySoft},
		OutlierRatioGate{Threshold: cfg.MaxOutlierRatio, Severity: SeveritySoft},
		LabelCorrelationGate{Threshold: cfg.MaxLabelCorr, Severity: softOrHard(cfg.LabelCorrHard)},
		FeatureCorrelationGate{Threshold: cfg.MaxFeatureCorr, Severity: softOrHard(cfg.FeatureCorrHard)},
	}}
}

// Apply evaluates every gate and returns all results plus the first hard
// failure as a fatal error. Soft failures never produce an error.
func (r *Runner) Apply(ds *clinical.Dataset) ([]Result, error) {
	results := make([]Result, 0, len(r.gates))
	var fatal error
	for _, g := range r.gates {
		res := g.Check(ds)
		results = append(results, res)
		if !res.Passed && res.Severity == SeverityHard && fatal == nil {
			if g.Name() == GateLabelCorrelation {
				fatal = fmt.Errorf("%w: %s", core.ErrLeakage, res.Detail)
			} else {
				fatal = core.NewGateError(g.Name(), res.Value, res.Threshold)
			}
		}
	}
	return results, fatal
}

// IsFatal reports whether an error came from a hard gate.
func IsFatal(err error) bool {
	return errors.Is(err, core.ErrQualityGate) || errors.Is(err, core.ErrLeakage)
}
