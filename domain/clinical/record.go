package clinical

import (
	"strconv"
	"strings"
)

// Field names one column of the diabetes cohort schema.
type Field string

const (
	FieldPregnancies   Field = "Pregnancies"
	FieldGlucose       Field = "Glucose"
	FieldBloodPressure Field = "BloodPressure"
	FieldSkinThickness Field = "SkinThickness"
	FieldInsulin       Field = "Insulin"
	FieldBMI           Field = "BMI"
	FieldPedigree      Field = "DiabetesPedigreeFunction"
	FieldAge           Field = "Age"
	FieldOutcome       Field = "Outcome"
)

// FeatureFields lists the model inputs in column order. Outcome is the label
// and is deliberately excluded.
var FeatureFields = []Field{
	FieldPregnancies,
	FieldGlucose,
	FieldBloodPressure,
	FieldSkinThickness,
	FieldInsulin,
	FieldBMI,
	FieldPedigree,
	FieldAge,
}

// AllFields lists every column in canonical CSV order.
var AllFields = append(append([]Field{}, FeatureFields...), FieldOutcome)

// Cell holds one observed value. Raw preserves the source token so the
// Validator can report type violations and splits stay byte-identical to the
// ingested file.
type Cell struct {
	Value     float64
	Raw       string
	Missing   bool
	Malformed bool
}

// NewCell creates a present, well-formed cell.
func NewCell(v float64) Cell {
	return Cell{Value: v}
}

// MissingCell creates an absent cell.
func MissingCell() Cell {
	return Cell{Missing: true}
}

// MalformedCell preserves an unparseable source token.
func MalformedCell(raw string) Cell {
	return Cell{Raw: raw, Malformed: true}
}

// Text renders the cell the way it appeared (or would appear) in a CSV.
func (c Cell) Text() string {
	if c.Missing {
		return ""
	}
	if c.Raw != "" {
		return c.Raw
	}
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

// Record is one observation with the fixed cohort fields.
type Record struct {
	Pregnancies   Cell
	Glucose       Cell
	BloodPressure Cell
	SkinThickness Cell
	Insulin       Cell
	BMI           Cell
	Pedigree      Cell
	Age           Cell
	Outcome       Cell
}

// Cell returns the cell for a field.
func (r Record) Cell(f Field) Cell {
	switch f {
	case FieldPregnancies:
		return r.Pregnancies
	case FieldGlucose:
		return r.Glucose
	case FieldBloodPressure:
		return r.BloodPressure
	case FieldSkinThickness:
		return r.SkinThickness
	case FieldInsulin:
		return r.Insulin
	case FieldBMI:
		return r.BMI
	case FieldPedigree:
		return r.Pedigree
	case FieldAge:
		return r.Age
	case FieldOutcome:
		return r.Outcome
	}
	return MissingCell()
}

// SetCell stores a cell for a field.
func (r *Record) SetCell(f Field, c Cell) {
	switch f {
	case FieldPregnancies:
		r.Pregnancies = c
	case FieldGlucose:
		r.Glucose = c
	case FieldBloodPressure:
		r.BloodPressure = c
	case FieldSkinThickness:
		r.SkinThickness = c
	case FieldInsulin:
		r.Insulin = c
	case FieldBMI:
		r.BMI = c
	case FieldPedigree:
		r.Pedigree = c
	case FieldAge:
		r.Age = c
	case FieldOutcome:
		r.Outcome = c
	}
}

// AllMissing reports whether every field of the record is absent.
func (r Record) AllMissing() bool {
	for _, f := range AllFields {
		if !r.Cell(f).Missing {
			return false
		}
	}
	return true
}

// Key returns a canonical representation used for exact-duplicate detection.
func (r Record) Key() string {
	parts := make([]string, 0, len(AllFields))
	for _, f := range AllFields {
		parts = append(parts, r.Cell(f).Text())
	}
	return strings.Join(parts, "\x1f")
}

// Features extracts the feature vector. Missing or malformed cells come back
// as NaN markers via the ok mask.
func (r Record) Features() (vec []float64, ok []bool) {
	vec = make([]float64, len(FeatureFields))
	ok = make([]bool, len(FeatureFields))
	for i, f := range FeatureFields {
		c := r.Cell(f)
		if c.Missing || c.Malformed {
			continue
		}
		vec[i] = c.Value
		ok[i] = true
	}
	return vec, ok
}

// Label returns the Outcome as an integer class.
func (r Record) Label() int {
	if r.Outcome.Value >= 0.5 {
		return 1
	}
	return 0
}
