// Package validate applies the declarative cohort schema to an ingested
// dataset and derives the cleaned subset used by every downstream stage.
package validate

import (
	"diapipe/domain/clinical"
	"diapipe/domain/core"
	"diapipe/domain/validation"
)

// Outcome is the result of one validation pass.
type Outcome struct {
	Cleaned *clinical.Dataset
	Report  *validation.Report
	Dropped int
}

// Validator runs the configured rules over a dataset. Row-level findings are
// never fatal; the stage always derives a cleaned subset. A fatal condition
// exists only when nothing survives.
type Validator struct {
	rowRules     []RowRule
	datasetRules []DatasetRule
}

// New creates a validator with the standard rule set for a schema.
func New(schema clinical.Schema) *Validator {
	return &Validator{
		rowRules: []RowRule{
			TypeRule{Schema: schema},
			RangeRule{Schema: schema},
			RequiredRule{Schema: schema},
			AllMissingRule{},
		},
		datasetRules: []DatasetRule{
			DuplicateRule{},
		},
	}
}

// Validate checks every row against every rule and keeps rows with zero
// violations, de-duplicated, in their original order.
func (v *Validator) Validate(ds *clinical.Dataset) (*Outcome, error) {
	report := validation.NewReport()

	for i, rec := range ds.Records {
		for _, rule := range v.rowRules {
			for _, viol := range rule.Check(i, rec) {
				report.Add(viol)
			}
		}
	}
	for _, rule := range v.datasetRules {
		for _, viol := range rule.CheckDataset(ds) {
			report.Add(viol)
		}
	}

	var keep []int
	for i := range ds.Records {
		if report.IsClean(i) {
			keep = append(keep, i)
		}
	}

	out := &Outcome{
		Cleaned: ds.Subset(keep),
		Report:  report,
		Dropped: ds.Len() - len(keep),
	}
	if len(keep) == 0 {
		// The report is still returned: the violation log must be written
		// even when the run aborts.
		return out, core.ErrEmptyDataset
	}
	return out, nil
}
