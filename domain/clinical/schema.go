package clinical

// FieldSpec declares the type and the clinically plausible closed interval for
// one column. ExclusiveMin marks zero-coded-missing fields (a recorded 0 is a
// measurement artifact, not a plausible reading).
type FieldSpec struct {
	Field        Field
	Integer      bool
	Min          float64
	Max          float64
	ExclusiveMin bool
	Nullable     bool
}

// InRange applies the closed-interval check to a present value.
func (s FieldSpec) InRange(v float64) bool {
	if s.ExclusiveMin {
		if v <= s.Min {
			return false
		}
	} else if v < s.Min {
		return false
	}
	return v <= s.Max
}

// Schema is the declarative column contract for the cohort.
type Schema struct {
	Specs []FieldSpec
}

// DefaultSchema returns the diabetes cohort contract. Bounds follow the
// published plausible ranges; Glucose and BMI match the reference pipeline.
func DefaultSchema() Schema {
	return Schema{Specs: []FieldSpec{
		{Field: FieldPregnancies, Integer: true, Min: 0, Max: 20, Nullable: true},
		{Field: FieldGlucose, Integer: true, Min: 50, Max: 240, Nullable: true},
		{Field: FieldBloodPressure, Integer: true, Min: 40, Max: 140, Nullable: true},
		{Field: FieldSkinThickness, Integer: true, Min: 0, Max: 99, ExclusiveMin: true, Nullable: true},
		{Field: FieldInsulin, Integer: true, Min: 0, Max: 900, Nullable: true},
		{Field: FieldBMI, Min: 0, Max: 65, ExclusiveMin: true, Nullable: true},
		{Field: FieldPedigree, Min: 0.05, Max: 2.5, Nullable: true},
		{Field: FieldAge, Integer: true, Min: 18, Max: 100, Nullable: false},
		{Field: FieldOutcome, Integer: true, Min: 0, Max: 1, Nullable: false},
	}}
}

// Spec looks up the contract for a field.
func (s Schema) Spec(f Field) (FieldSpec, bool) {
	for _, sp := range s.Specs {
		if sp.Field == f {
			return sp, true
		}
	}
	return FieldSpec{}, false
}
