package validate

import (
	"fmt"
	"math"

	"diapipe/domain/clinical"
	"diapipe/domain/validation"
)

// Rule names, stable identifiers used in the violation log.
const (
	RuleType       = "type_check"
	RuleRange      = "range_check"
	RuleRequired   = "required_field"
	RuleAllMissing = "all_missing_row"
	RuleDuplicate  = "duplicate_row"
)

// RowRule checks a single record in isolation. Rules are independent
// predicates; the validator merges their findings by row index.
type RowRule interface {
	Name() string
	Check(row int, rec clinical.Record) []validation.Violation
}

// DatasetRule checks constraints that span rows (duplicates).
type DatasetRule interface {
	Name() string
	CheckDataset(ds *clinical.Dataset) []validation.Violation
}

// TypeRule flags malformed cells and non-integral values in integer columns.
type TypeRule struct {
	Schema clinical.Schema
}

func (r TypeRule) Name() string { return RuleType }

func (r TypeRule) Check(row int, rec clinical.Record) []validation.Violation {
	var out []validation.Violation
	for _, spec := range r.Schema.Specs {
		c := rec.Cell(spec.Field)
		if c.Missing {
			continue
		}
		if c.Malformed {
			out = append(out, validation.Violation{
				Row:     row,
				Field:   spec.Field,
				Rule:    RuleType,
				Message: fmt.Sprintf("value %q is not numeric", c.Raw),
			})
			continue
		}
		if spec.Integer && c.Value != math.Trunc(c.Value) {
			out = append(out, validation.Violation{
				Row:     row,
				Field:   spec.Field,
				Rule:    RuleType,
				Message: fmt.Sprintf("value %s is not an integer", c.Text()),
			})
		}
	}
	return out
}

// RangeRule applies the closed-interval plausibility check to present cells.
type RangeRule struct {
	Schema clinical.Schema
}

func (r RangeRule) Name() string { return RuleRange }

func (r RangeRule) Check(row int, rec clinical.Record) []validation.Violation {
	var out []validation.Violation
	for _, spec := range r.Schema.Specs {
		c := rec.Cell(spec.Field)
		if c.Missing || c.Malformed {
			continue
		}
		if !spec.InRange(c.Value) {
			lo := "["
			if spec.ExclusiveMin {
				lo = "("
			}
			out = append(out, validation.Violation{
				Row:     row,
				Field:   spec.Field,
				Rule:    RuleRange,
				Message: fmt.Sprintf("value %s outside %s%g,%g]", c.Text(), lo, spec.Min, spec.Max),
			})
		}
	}
	return out
}

// RequiredRule flags missing cells in non-nullable columns.
type RequiredRule struct {
	Schema clinical.Schema
}

func (r RequiredRule) Name() string { return RuleRequired }

func (r RequiredRule) Check(row int, rec clinical.Record) []validation.Violation {
	var out []validation.Violation
	for _, spec := range r.Schema.Specs {
		if spec.Nullable {
			continue
		}
		if rec.Cell(spec.Field).Missing {
			out = append(out, validation.Violation{
				Row:     row,
				Field:   spec.Field,
				Rule:    RuleRequired,
				Message: "field is required but missing",
			})
		}
	}
	return out
}

// AllMissingRule flags rows where every field is absent. A missing value alone
// is permitted; an entirely empty row carries no observation.
type AllMissingRule struct{}

func (r AllMissingRule) Name() string { return RuleAllMissing }

func (r AllMissingRule) Check(row int, rec clinical.Record) []validation.Violation {
	if !rec.AllMissing() {
		return nil
	}
	return []validation.Violation{{
		Row:     row,
		Rule:    RuleAllMissing,
		Message: "every field in the row is missing",
	}}
}

// DuplicateRule flags exact duplicates of an earlier row. The first occurrence
// is kept; later copies are dropped.
type DuplicateRule struct{}

func (r DuplicateRule) Name() string { return RuleDuplicate }

func (r DuplicateRule) CheckDataset(ds *clinical.Dataset) []validation.Violation {
	seen := make(map[string]int, ds.Len())
	var out []validation.Violation
	for i, rec := range ds.Records {
		key := rec.Key()
		if first, ok := seen[key]; ok {
			out = append(out, validation.Violation{
				Row:     i,
				Rule:    RuleDuplicate,
				Message: fmt.Sprintf("exact duplicate of row %d", first),
			})
			continue
		}
		seen[key] = i
	}
	return out
}
