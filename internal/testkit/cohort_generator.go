// Package testkit generates deterministic synthetic cohorts: clinically
// plausible records plus a controllable number of injected violations. Tests
// and local runs use it instead of the real archive download.
package testkit

import (
	"math/rand"

	"diapipe/domain/clinical"
)

// CohortConfig configures the synthetic cohort generator.
type CohortConfig struct {
	TotalRows    int   `json:"total_rows"`
	InvalidRows  int   `json:"invalid_rows"`
	PositiveRows int   `json:"positive_rows"` // Outcome=1 count among valid rows
	Seed         int64 `json:"seed"`
}

// DefaultCohortConfig reproduces the reference run fixture: 768 rows, 49
// dropped by validation, 719 kept with 500 negative / 219 positive.
func DefaultCohortConfig() CohortConfig {
	return CohortConfig{
		TotalRows:    768,
		InvalidRows:  49,
		PositiveRows: 219,
		Seed:         42,
	}
}

// CohortGenerator produces synthetic diabetes cohorts.
type CohortGenerator struct {
	config CohortConfig
	rng    *rand.Rand
}

// NewCohortGenerator creates a generator with deterministic seeding.
func NewCohortGenerator(config CohortConfig) *CohortGenerator {
	return &CohortGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the cohort. Valid rows are unique and pass every schema
// rule; invalid rows cycle through the violation kinds (out-of-range value,
// exact duplicate, all-missing row, missing required field). Row order is
// shuffled so violations are spread through the file.
func (g *CohortGenerator) Generate() *clinical.Dataset {
	validCount := g.config.TotalRows - g.config.InvalidRows

	records := make([]clinical.Record, 0, g.config.TotalRows)
	seen := make(map[string]bool, validCount)
	for i := 0; i < validCount; i++ {
		positive := i < g.config.PositiveRows
		rec := g.validRecord(positive)
		for seen[rec.Key()] {
			rec = g.validRecord(positive)
		}
		seen[rec.Key()] = true
		records = append(records, rec)
	}

	for i := 0; i < g.config.InvalidRows; i++ {
		records = append(records, g.invalidRecord(i, records[:validCount]))
	}

	g.rng.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})

	return clinical.NewDataset("synthetic", records)
}

// validRecord draws every field from its plausible range. Positive cases get
// a shifted glucose distribution so the label stays learnable.
func (g *CohortGenerator) validRecord(positive bool) clinical.Record {
	var rec clinical.Record
	rec.Pregnancies = clinical.NewCell(float64(g.rng.Intn(15)))
	if positive {
		rec.Glucose = clinical.NewCell(float64(100 + g.rng.Intn(120)))
	} else {
		rec.Glucose = clinical.NewCell(float64(70 + g.rng.Intn(100)))
	}
	rec.BloodPressure = clinical.NewCell(float64(50 + g.rng.Intn(80)))
	rec.SkinThickness = clinical.NewCell(float64(7 + g.rng.Intn(60)))
	rec.Insulin = clinical.NewCell(float64(15 + g.rng.Intn(500)))
	rec.BMI = clinical.NewCell(round1(18 + g.rng.Float64()*35))
	rec.Pedigree = clinical.NewCell(round3(0.08 + g.rng.Float64()*2.3))
	rec.Age = clinical.NewCell(float64(21 + g.rng.Intn(60)))
	if positive {
		rec.Outcome = clinical.NewCell(1)
	} else {
		rec.Outcome = clinical.NewCell(0)
	}

	// Sparse missingness in the nullable measurement columns
	if g.rng.Float64() < 0.03 {
		rec.Insulin = clinical.MissingCell()
	}
	if g.rng.Float64() < 0.02 {
		rec.SkinThickness = clinical.MissingCell()
	}
	return rec
}

// invalidRecord builds one row the validator must drop.
func (g *CohortGenerator) invalidRecord(i int, valid []clinical.Record) clinical.Record {
	switch i % 4 {
	case 0:
		// Zero-coded measurement artifacts: Glucose=0 or BMI=0
		rec := g.validRecord(g.rng.Float64() < 0.3)
		if i%8 == 0 {
			rec.Glucose = clinical.NewCell(0)
		} else {
			rec.BMI = clinical.NewCell(0)
		}
		return rec
	case 1:
		// Exact duplicate of an earlier valid row
		return valid[g.rng.Intn(len(valid))]
	case 2:
		// Entirely empty row
		var rec clinical.Record
		for _, f := range clinical.AllFields {
			rec.SetCell(f, clinical.MissingCell())
		}
		return rec
	default:
		// Required field absent
		rec := g.validRecord(g.rng.Float64() < 0.3)
		rec.Age = clinical.MissingCell()
		return rec
	}
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
