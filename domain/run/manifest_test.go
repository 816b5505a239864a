package run

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diapipe/domain/core"
)

func TestManifestValidate(t *testing.T) {
	m := NewManifest("data/raw/diabetes.csv", core.SourceHash("abc"), 522, "1.0.0")
	assert.NoError(t, m.Validate())

	m.SourceHash = ""
	assert.Error(t, m.Validate())

	m = NewManifest("", core.SourceHash("abc"), 522, "1.0.0")
	assert.Error(t, m.Validate())
}

func TestManifestVerifySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cohort.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	hash, err := core.NewSourceHash(path)
	require.NoError(t, err)
	m := NewManifest(path, hash, 522, "1.0.0")
	assert.NoError(t, m.VerifySource())

	// A file swapped out mid-run invalidates the manifest
	require.NoError(t, os.WriteFile(path, []byte("a,b\n9,9\n"), 0o644))
	err = m.VerifySource()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrHashMismatch)
}
