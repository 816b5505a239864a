// Package app wires the pipeline stages together: ingest, validate, gate,
// split, summarize, train, evaluate, persist. Each stage completes and hands
// its artifacts forward explicitly; nothing is shared through globals.
package app

import (
	"context"

	"go.uber.org/zap"

	"diapipe/domain/clinical"
	"diapipe/domain/core"
	"diapipe/domain/run"
	"diapipe/internal/artifact"
	"diapipe/internal/config"
	apperrors "diapipe/internal/errors"
	"diapipe/internal/evaluate"
	"diapipe/internal/gate"
	"diapipe/internal/ingest"
	"diapipe/internal/split"
	"diapipe/internal/summarize"
	"diapipe/internal/train"
	"diapipe/internal/validate"
)

// Version is stamped into run manifests.
const Version = "1.0.0"

// RunLedger persists completed run manifests (optional).
type RunLedger interface {
	SaveRun(ctx context.Context, m *run.Manifest) error
}

// WorkbookExporter bundles the result tables into a spreadsheet (optional).
type WorkbookExporter interface {
	Export(tables []artifact.Table) error
}

// Outcome collects every stage result for callers that consume artifacts
// in-process instead of from disk.
type Outcome struct {
	Manifest     *run.Manifest
	Validation   *validate.Outcome
	Gates        []gate.Result
	Split        *split.Split
	Summaries    []summarize.FieldSummary
	Correlations *summarize.CorrelationMatrix
	Training     *train.Result
	Evaluation   *evaluate.Result
}

// Pipeline is the batch runner.
type Pipeline struct {
	cfg      *config.Config
	log      *zap.Logger
	ledger   RunLedger
	workbook WorkbookExporter
}

// Option customizes a pipeline.
type Option func(*Pipeline)

// WithLedger attaches a run ledger.
func WithLedger(l RunLedger) Option {
	return func(p *Pipeline) { p.ledger = l }
}

// WithWorkbook attaches a workbook exporter.
func WithWorkbook(w WorkbookExporter) Option {
	return func(p *Pipeline) { p.workbook = w }
}

// New creates a pipeline.
func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the full pipeline. Any returned error is fatal; the exit
// message names the stage that aborted the run.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	store, err := artifact.NewStore(p.cfg.Data.OutDir)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeArtifactError, err)
	}

	sourceHash, err := core.NewSourceHash(p.cfg.Data.SourceFile)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeStructural,
			apperrors.Wrapf(err, "source %s unreadable", p.cfg.Data.SourceFile))
	}
	manifest := run.NewManifest(p.cfg.Data.SourceFile, sourceHash, p.cfg.Split.Seed, Version)
	out := &Outcome{Manifest: manifest}

	ds, err := p.ingestStage()
	if err != nil {
		return out, err
	}
	manifest.RowsIngested = ds.Len()

	cleaned, err := p.validateStage(store, out, ds)
	if err != nil {
		return out, err
	}

	if err := p.gateStage(store, out, cleaned); err != nil {
		return out, err
	}

	if err := p.splitStage(store, out, cleaned); err != nil {
		return out, err
	}

	p.summarizeStage(store, out)

	if err := p.trainStage(ctx, store, out); err != nil {
		return out, err
	}

	if err := p.evaluateStage(store, out); err != nil {
		return out, err
	}

	if err := p.persistRun(ctx, store, out); err != nil {
		return out, err
	}

	p.log.Info("pipeline complete",
		zap.String("run_id", manifest.RunID.String()),
		zap.Float64("best_c", manifest.BestC),
		zap.Float64("test_accuracy", manifest.TestAccuracy),
	)
	return out, nil
}

func (p *Pipeline) ingestStage() (*clinical.Dataset, error) {
	ds, err := ingest.NewReader(p.cfg.Data.SourceFile).Read()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeStructural, apperrors.Wrap(err, "ingest stage failed"))
	}
	p.log.Info("ingested source",
		zap.String("source", p.cfg.Data.SourceFile),
		zap.Int("rows", ds.Len()),
	)
	return ds, nil
}

func (p *Pipeline) validateStage(store *artifact.Store, out *Outcome, ds *clinical.Dataset) (*clinical.Dataset, error) {
	vout, verr := validate.New(clinical.DefaultSchema()).Validate(ds)
	out.Validation = vout
	if vout != nil {
		// The violation log is written regardless of overall success
		if logErr := store.AppendViolations(vout.Report); logErr != nil {
			return nil, apperrors.WithCode(apperrors.CodeArtifactError, logErr)
		}
		out.Manifest.RowsDropped = vout.Dropped
		p.log.Info("validated dataset",
			zap.Int("violations", vout.Report.Len()),
			zap.Int("rows_dropped", vout.Dropped),
			zap.Int("rows_kept", vout.Cleaned.Len()),
		)
	}
	if verr != nil {
		return nil, apperrors.WithCode(apperrors.CodeStructural, apperrors.Wrap(verr, "validation stage failed"))
	}
	if err := store.WriteDataset(artifact.FileCleaned, vout.Cleaned); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeArtifactError, err)
	}
	return vout.Cleaned, nil
}

func (p *Pipeline) gateStage(store *artifact.Store, out *Outcome, cleaned *clinical.Dataset) error {
	runner := gate.NewRunner(gate.Config{
		MinClassRatio:     p.cfg.Gates.MinClassRatio,
		MaxNullRatio:      p.cfg.Gates.MaxNullRatio,
		MaxDuplicateRatio: p.cfg.Gates.MaxDuplicateRatio,
		MaxOutlierRatio:   p.cfg.Gates.MaxOutlierRatio,
		MaxLabelCorr:      p.cfg.Gates.MaxLabelCorr,
		MaxFeatureCorr:    p.cfg.Gates.MaxFeatureCorr,
		ImbalanceHard:     p.cfg.Gates.ImbalanceHard,
		LabelCorrHard:     p.cfg.Gates.LabelCorrHard,
		FeatureCorrHard:   p.cfg.Gates.FeatureCorrHard,
	})
	results, gateErr := runner.Apply(cleaned)
	out.Gates = results

	if err := store.WriteTable(artifact.FileGates, artifact.GateTable(results)); err != nil {
		return apperrors.WithCode(apperrors.CodeArtifactError, err)
	}
	for _, r := range results {
		if r.Passed {
			continue
		}
		if r.Severity == gate.SeverityHard {
			p.log.Error("quality gate failed", zap.String("gate", r.Gate), zap.String("detail", r.Detail))
		} else {
			p.log.Warn("quality gate warning", zap.String("gate", r.Gate), zap.String("detail", r.Detail))
		}
	}
	if gateErr != nil {
		return apperrors.WithCode(apperrors.CodeQualityGate, apperrors.Wrap(gateErr, "quality gate stage failed"))
	}
	return nil
}

func (p *Pipeline) splitStage(store *artifact.Store, out *Outcome, cleaned *clinical.Dataset) error {
	sp, err := split.NewSplitter(p.cfg.Split.Seed, p.cfg.Split.TrainFraction).Partition(cleaned)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeStructural, apperrors.Wrap(err, "split stage failed"))
	}
	out.Split = sp
	out.Manifest.RowsTrain = sp.TrainSet.Len()
	out.Manifest.RowsTest = sp.TestSet.Len()

	if err := store.WriteDataset(artifact.FileTrain, sp.TrainSet); err != nil {
		return apperrors.WithCode(apperrors.CodeArtifactError, err)
	}
	if err := store.WriteDataset(artifact.FileTest, sp.TestSet); err != nil {
		return apperrors.WithCode(apperrors.CodeArtifactError, err)
	}
	p.log.Info("split dataset",
		zap.Int64("seed", sp.Seed),
		zap.Int("train_rows", sp.TrainSet.Len()),
		zap.Int("test_rows", sp.TestSet.Len()),
	)
	return nil
}

// summarizeStage feeds reporting only; its failures never block modeling.
func (p *Pipeline) summarizeStage(store *artifact.Store, out *Outcome) {
	summaries, err := summarize.Summarize(out.Split.TrainSet)
	if err != nil {
		p.log.Warn("summarize stage failed", zap.Error(err))
		return
	}
	out.Summaries = summaries
	out.Correlations = summarize.Correlations(out.Split.TrainSet)

	if err := store.WriteTable(artifact.FileSummary, artifact.SummaryTable(summaries)); err != nil {
		p.log.Warn("summary table write failed", zap.Error(err))
	}
	if err := store.WriteTable(artifact.FileCorrelation, artifact.CorrelationTable(out.Correlations)); err != nil {
		p.log.Warn("correlation table write failed", zap.Error(err))
	}
}

func (p *Pipeline) trainStage(ctx context.Context, store *artifact.Store, out *Outcome) error {
	trainer := train.NewTrainer(train.Config{
		Seed:          p.cfg.Split.Seed,
		Folds:         p.cfg.Train.Folds,
		SearchIters:   p.cfg.Train.SearchIters,
		MaxIterations: p.cfg.Train.MaxIterations,
		Parallelism:   p.cfg.Train.Parallelism,
		CMin:          train.DefaultCMin,
		CMax:          train.DefaultCMax,
	})
	res, err := trainer.Train(ctx, out.Split.TrainSet)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeFitFailure, apperrors.Wrap(err, "training stage failed"))
	}
	out.Training = res
	out.Manifest.BestC = res.BestC

	p.log.Info("trained model",
		zap.Float64("baseline_cv_accuracy", res.Baseline.MeanScore),
		zap.Float64("best_c", res.BestC),
		zap.Float64("best_cv_accuracy", res.BestScore),
	)

	tables := []artifact.Table{
		artifact.BaselineTable(res.Baseline),
		artifact.CVResultsTable(res.Candidates, res.BestIndex),
		artifact.BestParamsTable(res),
		artifact.CoefficientTable(res),
	}
	for _, t := range tables {
		if err := store.WriteTable(t.Name, t); err != nil {
			return apperrors.WithCode(apperrors.CodeArtifactError, err)
		}
	}
	if err := store.WriteModel(res.Pipeline); err != nil {
		return apperrors.WithCode(apperrors.CodeArtifactError, err)
	}
	return nil
}

func (p *Pipeline) evaluateStage(store *artifact.Store, out *Outcome) error {
	res, err := evaluate.Evaluate(out.Training.Pipeline, out.Split.TestSet)
	if err != nil {
		return apperrors.WithCode(apperrors.CodeInternalError, apperrors.Wrap(err, "evaluation stage failed"))
	}
	out.Evaluation = res
	out.Manifest.TestAccuracy = res.Accuracy

	p.log.Info("evaluated model",
		zap.Float64("test_accuracy", res.Accuracy),
		zap.Int("false_positives", res.Confusion.FalsePositive),
		zap.Int("false_negatives", res.Confusion.FalseNegative),
	)

	tables := []artifact.Table{
		artifact.AccuracyTable(res),
		artifact.ConfusionTable(res),
		artifact.PredictionTable(res),
	}
	for _, t := range tables {
		if err := store.WriteTable(t.Name, t); err != nil {
			return apperrors.WithCode(apperrors.CodeArtifactError, err)
		}
	}
	return nil
}

func (p *Pipeline) persistRun(ctx context.Context, store *artifact.Store, out *Outcome) error {
	if err := out.Manifest.VerifySource(); err != nil {
		return apperrors.WithCode(apperrors.CodeStructural, err)
	}
	if err := store.WriteJSON(artifact.FileManifest, out.Manifest); err != nil {
		return apperrors.WithCode(apperrors.CodeArtifactError, err)
	}
	if p.ledger != nil {
		if err := p.ledger.SaveRun(ctx, out.Manifest); err != nil {
			return apperrors.WithCode(apperrors.CodeDatabaseError, apperrors.Wrap(err, "run ledger save failed"))
		}
	}
	if p.workbook != nil {
		tables := p.allTables(out)
		if err := p.workbook.Export(tables); err != nil {
			// The workbook duplicates the CSV tables; losing it is not fatal
			p.log.Warn("workbook export failed", zap.Error(err))
		}
	}
	return nil
}

func (p *Pipeline) allTables(out *Outcome) []artifact.Table {
	var tables []artifact.Table
	if out.Summaries != nil {
		tables = append(tables, artifact.SummaryTable(out.Summaries))
	}
	if out.Correlations != nil {
		tables = append(tables, artifact.CorrelationTable(out.Correlations))
	}
	tables = append(tables, artifact.GateTable(out.Gates))
	if out.Training != nil {
		tables = append(tables,
			artifact.BaselineTable(out.Training.Baseline),
			artifact.CVResultsTable(out.Training.Candidates, out.Training.BestIndex),
			artifact.BestParamsTable(out.Training),
			artifact.CoefficientTable(out.Training),
		)
	}
	if out.Evaluation != nil {
		tables = append(tables,
			artifact.AccuracyTable(out.Evaluation),
			artifact.ConfusionTable(out.Evaluation),
			artifact.PredictionTable(out.Evaluation),
		)
	}
	return tables
}
