package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Structural failures abort the run before any modeling happens
	ErrStructural     = errors.New("structural failure")
	ErrMissingColumn  = fmt.Errorf("%w: required column absent", ErrStructural)
	ErrEmptyDataset   = fmt.Errorf("%w: no rows survived validation", ErrStructural)
	ErrSourceUnusable = fmt.Errorf("%w: source file unreadable or malformed", ErrStructural)

	// Quality gate failures
	ErrQualityGate      = errors.New("quality gate failed")
	ErrLeakage          = errors.New("data leakage detected")
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// Fitting failures
	ErrNoConvergence = errors.New("optimizer did not converge within iteration budget")

	// Provenance errors
	ErrHashMismatch = errors.New("source hash mismatch")
)

// Error constructors with context
func NewStructuralError(stage string, reason string) error {
	return fmt.Errorf("%w in %s: %s", ErrStructural, stage, reason)
}

func NewGateError(gate string, value, threshold float64) error {
	return fmt.Errorf("%w: %s value %.4f exceeded hard threshold %.4f", ErrQualityGate, gate, value, threshold)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers
func IsStructuralError(err error) bool {
	return errors.Is(err, ErrStructural)
}

func IsGateError(err error) bool {
	return errors.Is(err, ErrQualityGate) ||
		errors.Is(err, ErrLeakage)
}

func IsFittingError(err error) bool {
	return errors.Is(err, ErrNoConvergence)
}
