// Command datagen writes a deterministic synthetic cohort CSV for local runs
// and tests, replacing the archive download.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"diapipe/internal/artifact"
	"diapipe/internal/testkit"
)

func main() {
	cfg := testkit.DefaultCohortConfig()
	out := flag.String("out", "data/raw/diabetes.csv", "output CSV path")
	flag.IntVar(&cfg.TotalRows, "rows", cfg.TotalRows, "total row count")
	flag.IntVar(&cfg.InvalidRows, "invalid", cfg.InvalidRows, "rows that violate the schema")
	flag.IntVar(&cfg.PositiveRows, "positive", cfg.PositiveRows, "Outcome=1 count among valid rows")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "generator seed")
	flag.Parse()

	if cfg.InvalidRows >= cfg.TotalRows || cfg.PositiveRows > cfg.TotalRows-cfg.InvalidRows {
		fmt.Fprintln(os.Stderr, "datagen: invalid row counts")
		os.Exit(1)
	}

	ds := testkit.NewCohortGenerator(cfg).Generate()

	store, err := artifact.NewStore(filepath.Dir(*out))
	if err != nil {
		fmt.Fprintf(os.Stderr, "datagen: %v\n", err)
		os.Exit(1)
	}
	if err := store.WriteDataset(filepath.Base(*out), ds); err != nil {
		fmt.Fprintf(os.Stderr, "datagen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d rows to %s\n", ds.Len(), *out)
}
