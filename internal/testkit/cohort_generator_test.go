package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diapipe/domain/clinical"
	"diapipe/internal/validate"
)

func TestGenerateReferenceFixture(t *testing.T) {
	ds := NewCohortGenerator(DefaultCohortConfig()).Generate()
	require.Equal(t, 768, ds.Len())

	out, err := validate.New(clinical.DefaultSchema()).Validate(ds)
	require.NoError(t, err)
	assert.Equal(t, 49, out.Dropped, "every injected violation is caught")
	assert.Equal(t, 719, out.Cleaned.Len())

	neg, pos := out.Cleaned.ClassCounts()
	assert.Equal(t, 500, neg)
	assert.Equal(t, 219, pos)
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultCohortConfig()
	a := NewCohortGenerator(cfg).Generate()
	b := NewCohortGenerator(cfg).Generate()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	cfg.Seed = 99
	c := NewCohortGenerator(cfg).Generate()
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestGenerateValidRowsPassSchema(t *testing.T) {
	cfg := CohortConfig{TotalRows: 100, InvalidRows: 0, PositiveRows: 30, Seed: 5}
	ds := NewCohortGenerator(cfg).Generate()

	out, err := validate.New(clinical.DefaultSchema()).Validate(ds)
	require.NoError(t, err)
	assert.Zero(t, out.Dropped)

	neg, pos := out.Cleaned.ClassCounts()
	assert.Equal(t, 70, neg)
	assert.Equal(t, 30, pos)
}
