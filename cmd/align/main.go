// Command align segments a vocabulary list into kanji/kana pairs and writes
// the aligned list as TSV. Optionally the result is stored in PostgreSQL.
//
// Flags:
//
//	--input            vocabulary TSV to align (overrides input_path)
//	--output           aligned TSV destination (default: stdout)
//	--aligner-config   path to aligner YAML config file
//	--dry-run          align without writing output or touching the DB
//	--store            upsert alignments into PostgreSQL
//	--migrate          apply database migrations before running
//	--fail-on-invalid  stop at the first row that cannot be aligned
//	--compact          merge neighbouring kana segments
//	--ruby             add a bracket-notation Ruby column
//	--lookup           print stored alignments for a spelling and exit
//	--version          print the build version and exit
//
// Rows that cannot be aligned are logged with their line number and left out
// of the output and the store. That covers rows missing a spelling or
// reading, readings too short for the spelling, and pairings whose segments
// do not join back into the original spelling and reading. For example
// あ/いあ would pair あ with い and is dropped rather than written. The run
// summary reports how many rows were skipped. Pass --fail-on-invalid to
// stop at the first such row instead.
//
// Exit codes: 0 = success (including runs with skipped rows), 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/evrys/hayauchi/internal/adapter/postgres"
	"github.com/evrys/hayauchi/internal/adapter/postgres/alignment"
	"github.com/evrys/hayauchi/internal/app"
	"github.com/evrys/hayauchi/internal/app/aligner"
	"github.com/evrys/hayauchi/internal/config"
)

// Compile-time interface assertions.
var (
	_ aligner.AlignmentRepo = (*alignment.Repo)(nil)
	_ aligner.TxRunner      = (*postgres.TxManager)(nil)
)

func main() {
	inputFlag := flag.String("input", "", "vocabulary TSV to align")
	outputFlag := flag.String("output", "", "aligned TSV destination (default: stdout)")
	alignerConfigFlag := flag.String("aligner-config", "", "path to aligner YAML config file")
	dryRunFlag := flag.Bool("dry-run", false, "align without writing output or touching the DB")
	storeFlag := flag.Bool("store", false, "upsert alignments into PostgreSQL")
	migrateFlag := flag.Bool("migrate", false, "apply database migrations before running")
	failFlag := flag.Bool("fail-on-invalid", false, "stop at the first row that cannot be aligned")
	compactFlag := flag.Bool("compact", false, "merge neighbouring kana segments")
	rubyFlag := flag.Bool("ruby", false, "add a bracket-notation Ruby column")
	lookupFlag := flag.String("lookup", "", "print stored alignments for a spelling and exit")
	versionFlag := flag.Bool("version", false, "print the build version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Println(app.BuildVersion())
		return
	}

	// Load app config (logging, DB connection).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)
	logger.Info("starting align", slog.String("version", app.BuildVersion()))

	// Load aligner config.
	alignerCfg, err := aligner.LoadConfig(*alignerConfigFlag)
	if err != nil {
		logger.Error("load aligner config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *inputFlag != "" {
		alignerCfg.InputPath = *inputFlag
	}
	if *outputFlag != "" {
		alignerCfg.OutputPath = *outputFlag
	}
	alignerCfg.DryRun = alignerCfg.DryRun || *dryRunFlag
	alignerCfg.Store = alignerCfg.Store || *storeFlag
	alignerCfg.FailOnInvalid = alignerCfg.FailOnInvalid || *failFlag
	alignerCfg.Compact = alignerCfg.Compact || *compactFlag
	alignerCfg.RubyColumn = alignerCfg.RubyColumn || *rubyFlag
	if err := alignerCfg.Validate(); err != nil {
		logger.Error("invalid aligner config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	needDB := alignerCfg.Store || *migrateFlag || *lookupFlag != ""
	if needDB {
		if err := appCfg.RequireDatabase(); err != nil {
			logger.Error("database not configured", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// 30-minute context timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *migrateFlag {
		applied, err := postgres.Migrate(ctx, logger, appCfg.Database.DSN)
		if err != nil {
			logger.Error("migrate database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("migrations up to date", slog.Int("applied", applied))
		if alignerCfg.InputPath == "" && *lookupFlag == "" {
			return
		}
	}

	var (
		repo *alignment.Repo
		txm  *postgres.TxManager
	)
	if needDB {
		pool, err := postgres.NewPool(ctx, appCfg.Database)
		if err != nil {
			logger.Error("connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		repo = alignment.New(pool)
		txm = postgres.NewTxManager(pool)
	}

	if *lookupFlag != "" {
		if err := lookup(ctx, repo, *lookupFlag); err != nil {
			logger.Error("lookup", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	// Run pipeline. Nil repositories stay untyped so the pipeline sees nil.
	var (
		pipelineRepo aligner.AlignmentRepo
		pipelineTx   aligner.TxRunner
	)
	if repo != nil {
		pipelineRepo, pipelineTx = repo, txm
	}

	pipeline := aligner.NewPipeline(logger, pipelineRepo, pipelineTx, *alignerCfg)
	result, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if result.HasErrors() {
		logger.Warn("pipeline completed with skipped rows",
			slog.Int("skipped", result.Skipped),
			slog.Int("malformed", result.Malformed),
		)
		return
	}

	logger.Info("pipeline completed successfully")
}

func lookup(ctx context.Context, repo *alignment.Repo, orthography string) error {
	alignments, err := repo.GetByOrthography(ctx, orthography)
	if err != nil {
		return err
	}
	if len(alignments) == 0 {
		fmt.Printf("%s: no stored alignment\n", orthography)
		return nil
	}
	for _, a := range alignments {
		fmt.Printf("%s\t%s\t%s\t%s\n", a.Orthography, a.Reading, a.Furigana, a.CreatedAt.Format(time.RFC3339))
	}
	return nil
}
