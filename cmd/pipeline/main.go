// Command pipeline runs the full analysis batch: ingest, validate, gate,
// split, summarize, train, evaluate, persist. It exits non-zero on the first
// fatal stage error.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"diapipe/adapters/excel"
	"diapipe/adapters/postgres"
	"diapipe/app"
	"diapipe/domain/core"
	"diapipe/internal/artifact"
	"diapipe/internal/config"
	apperrors "diapipe/internal/errors"
	"diapipe/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline failed [%s]: %v\n", failureClass(err), err)
		os.Exit(1)
	}
}

// failureClass names the failure family for the exit diagnostic.
func failureClass(err error) string {
	switch {
	case core.IsGateError(err):
		return "quality-gate"
	case core.IsFittingError(err):
		return "model-fit"
	case core.IsStructuralError(err):
		return "structural"
	}
	return apperrors.GetCode(err)
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	source := flag.String("source", "", "input CSV path (overrides PIPELINE_SOURCE)")
	outDir := flag.String("out", "", "artifact output directory (overrides PIPELINE_OUT_DIR)")
	seed := flag.Int64("seed", 0, "split and search seed (overrides PIPELINE_SEED)")
	noWorkbook := flag.Bool("no-workbook", false, "skip the Excel workbook export")
	flag.Parse()

	if *source != "" {
		cfg.Data.SourceFile = *source
	}
	if *outDir != "" {
		cfg.Data.OutDir = *outDir
	}
	if *seed != 0 {
		cfg.Split.Seed = *seed
	}

	log := logging.New(cfg.Logging.File)
	defer log.Sync()

	ctx := context.Background()

	var opts []app.Option
	if cfg.Database.URL != "" {
		repo, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return apperrors.WithCode(apperrors.CodeDatabaseError, err)
		}
		defer repo.Close()
		opts = append(opts, app.WithLedger(repo))
		log.Info("run ledger connected")
	}
	if !*noWorkbook {
		path := filepath.Join(cfg.Data.OutDir, artifact.FileWorkbook)
		opts = append(opts, app.WithWorkbook(excel.NewWorkbookExporter(path)))
	}

	out, err := app.New(cfg, log, opts...).Run(ctx)
	if err != nil {
		return err
	}

	log.Info("artifacts written",
		zap.String("dir", cfg.Data.OutDir),
		zap.String("run_id", out.Manifest.RunID.String()),
	)
	return nil
}
