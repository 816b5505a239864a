package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"diapipe/internal/artifact"
	"diapipe/internal/config"
	"diapipe/internal/testkit"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	source := filepath.Join(dir, "diabetes.csv")

	cohort := testkit.CohortConfig{TotalRows: 300, InvalidRows: 20, PositiveRows: 100, Seed: 42}
	store, err := artifact.NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.WriteDataset("diabetes.csv", testkit.NewCohortGenerator(cohort).Generate()))

	return &config.Config{
		Data: config.DataConfig{
			SourceFile: source,
			OutDir:     filepath.Join(dir, "results"),
		},
		Split: config.SplitConfig{Seed: 522, TrainFraction: 0.70},
		Train: config.TrainConfig{
			Folds:         3,
			SearchIters:   4,
			MaxIterations: 500,
			Parallelism:   2,
		},
		Gates: config.GateConfig{
			MinClassRatio:     0.10,
			MaxNullRatio:      0.50,
			MaxDuplicateRatio: 0.0,
			MaxOutlierRatio:   0.05,
			MaxLabelCorr:      0.90,
			MaxFeatureCorr:    0.70,
			ImbalanceHard:     true,
			FeatureCorrHard:   true,
			LabelCorrHard:     true,
		},
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, zap.NewNop())

	out, err := p.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, out)

	m := out.Manifest
	assert.Equal(t, 300, m.RowsIngested)
	assert.Equal(t, 20, m.RowsDropped)
	assert.Equal(t, 196, m.RowsTrain)
	assert.Equal(t, 84, m.RowsTest)
	assert.Equal(t, m.RowsTrain+m.RowsTest, m.RowsIngested-m.RowsDropped)
	assert.NotZero(t, m.BestC)
	assert.Greater(t, m.TestAccuracy, 0.0)
	assert.False(t, m.CreatedAt.IsZero())

	for _, name := range []string{
		artifact.FileValidationLog,
		artifact.FileCleaned,
		artifact.FileTrain,
		artifact.FileTest,
		artifact.FileSummary,
		artifact.FileCorrelation,
		artifact.FileGates,
		artifact.FileBaseline,
		artifact.FileCVResults,
		artifact.FileBestParams,
		artifact.FileCoeffs,
		artifact.FileModel,
		artifact.FileAccuracy,
		artifact.FileConfusion,
		artifact.FilePredictions,
		artifact.FileManifest,
	} {
		_, err := os.Stat(filepath.Join(cfg.Data.OutDir, name))
		assert.NoError(t, err, name)
	}
}

func TestPipelineReproducible(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop()

	a, err := New(cfg, log).Run(context.Background())
	require.NoError(t, err)

	cfg.Data.OutDir = filepath.Join(t.TempDir(), "results2")
	b, err := New(cfg, log).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Split.TrainSet.Fingerprint(), b.Split.TrainSet.Fingerprint())
	assert.Equal(t, a.Training.BestC, b.Training.BestC)
	assert.Equal(t, a.Training.Intercept, b.Training.Intercept)
	assert.Equal(t, a.Evaluation.Accuracy, b.Evaluation.Accuracy)
	assert.NotEqual(t, a.Manifest.RunID, b.Manifest.RunID)
}

func TestPipelineFailsOnMissingSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.SourceFile = filepath.Join(t.TempDir(), "absent.csv")

	_, err := New(cfg, zap.NewNop()).Run(context.Background())
	assert.Error(t, err)
}
