package config

import (
	"os"
	"strconv"

	"diapipe/internal/errors"
)

// Config represents the complete pipeline configuration
type Config struct {
	Data     DataConfig
	Split    SplitConfig
	Train    TrainConfig
	Gates    GateConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// DataConfig holds source and artifact paths
type DataConfig struct {
	SourceFile string
	OutDir     string
}

// SplitConfig holds partitioning settings
type SplitConfig struct {
	Seed          int64
	TrainFraction float64
}

// TrainConfig holds model fitting settings
type TrainConfig struct {
	Folds         int
	SearchIters   int
	MaxIterations int
	Parallelism   int64
}

// GateConfig holds the data-quality thresholds applied before modeling
type GateConfig struct {
	MinClassRatio      float64 // minority/majority floor
	MaxNullRatio       float64 // per-column missing ceiling
	MaxDuplicateRatio  float64 // duplicate-row ceiling
	MaxOutlierRatio    float64 // density-scored outlier ceiling
	MaxLabelCorr       float64 // feature-label ceiling (leakage)
	MaxFeatureCorr     float64 // pairwise feature-feature ceiling
	ImbalanceHard      bool
	FeatureCorrHard    bool
	LabelCorrHard      bool
}

// DatabaseConfig holds the optional run-ledger connection
type DatabaseConfig struct {
	URL string
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	File string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Data: DataConfig{
			SourceFile: getEnv("PIPELINE_SOURCE", "data/raw/diabetes.csv"),
			OutDir:     getEnv("PIPELINE_OUT_DIR", "results"),
		},
		Split: SplitConfig{
			Seed:          getEnvInt64("PIPELINE_SEED", 522),
			TrainFraction: getEnvFloat("PIPELINE_TRAIN_FRACTION", 0.70),
		},
		Train: TrainConfig{
			Folds:         getEnvInt("PIPELINE_CV_FOLDS", 5),
			SearchIters:   getEnvInt("PIPELINE_SEARCH_ITERS", 20),
			MaxIterations: getEnvInt("PIPELINE_MAX_ITER", 2000),
			Parallelism:   getEnvInt64("PIPELINE_PARALLELISM", 4),
		},
		Gates: GateConfig{
			MinClassRatio:     getEnvFloat("PIPELINE_MIN_CLASS_RATIO", 0.10),
			MaxNullRatio:      getEnvFloat("PIPELINE_MAX_NULL_RATIO", 0.50),
			MaxDuplicateRatio: getEnvFloat("PIPELINE_MAX_DUP_RATIO", 0.0),
			MaxOutlierRatio:   getEnvFloat("PIPELINE_MAX_OUTLIER_RATIO", 0.05),
			MaxLabelCorr:      getEnvFloat("PIPELINE_MAX_LABEL_CORR", 0.90),
			MaxFeatureCorr:    getEnvFloat("PIPELINE_MAX_FEATURE_CORR", 0.70),
			ImbalanceHard:     getEnvBool("PIPELINE_IMBALANCE_HARD", true),
			FeatureCorrHard:   getEnvBool("PIPELINE_FEATURE_CORR_HARD", true),
			LabelCorrHard:     getEnvBool("PIPELINE_LABEL_CORR_HARD", true),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Logging: LoggingConfig{
			File: os.Getenv("LOG_FILE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Data.SourceFile == "" {
		return errors.New(errors.CodeConfigInvalid, "PIPELINE_SOURCE cannot be empty")
	}
	if c.Split.TrainFraction <= 0 || c.Split.TrainFraction >= 1 {
		return errors.New(errors.CodeConfigInvalid, "PIPELINE_TRAIN_FRACTION must be in (0,1)")
	}
	if c.Train.Folds < 2 {
		return errors.New(errors.CodeConfigInvalid, "PIPELINE_CV_FOLDS must be at least 2")
	}
	if c.Train.SearchIters < 1 {
		return errors.New(errors.CodeConfigInvalid, "PIPELINE_SEARCH_ITERS must be at least 1")
	}
	if c.Train.MaxIterations < 1 {
		return errors.New(errors.CodeConfigInvalid, "PIPELINE_MAX_ITER must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
