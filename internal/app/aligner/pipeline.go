package aligner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/evrys/hayauchi/internal/align"
	"github.com/evrys/hayauchi/internal/app/aligner/vocab"
	"github.com/evrys/hayauchi/internal/domain"
	"github.com/evrys/hayauchi/internal/kana"
)

// ErrNotReconstructed is reported for a row whose segments do not
// concatenate back to its spelling and reading.
var ErrNotReconstructed = errors.New("segments do not reconstruct entry")

// RowError describes one vocabulary row that could not be aligned.
type RowError struct {
	Line        int
	Orthography string
	Reading     string
	Err         error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d (%s/%s): %v", e.Line, e.Orthography, e.Reading, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Result holds the outcome of a pipeline run.
type Result struct {
	RunID     uuid.UUID
	Total     int
	Aligned   int
	Skipped   int
	Malformed int
	KanaOnly  int // aligned rows whose spelling has no logograph
	Stored    int
	Rows      []RowError
	Duration  time.Duration
}

// HasErrors returns true if any row was skipped or malformed.
func (r Result) HasErrors() bool {
	return r.Skipped > 0 || r.Malformed > 0
}

// Pipeline reads a vocabulary list, aligns every row, writes the aligned
// list and optionally stores it.
type Pipeline struct {
	log    *slog.Logger
	repo   AlignmentRepo
	tx     TxRunner
	cfg    Config
	stdout io.Writer
	now    func() time.Time
}

// NewPipeline creates a new Pipeline. repo and tx may be nil unless
// cfg.Store is set.
func NewPipeline(log *slog.Logger, repo AlignmentRepo, tx TxRunner, cfg Config) *Pipeline {
	return &Pipeline{
		log:    log,
		repo:   repo,
		tx:     tx,
		cfg:    cfg,
		stdout: os.Stdout,
		now:    time.Now,
	}
}

// Run executes the pipeline.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := p.now()

	if p.cfg.InputPath == "" {
		return Result{}, fmt.Errorf("input path not configured")
	}
	if p.cfg.Store && (p.repo == nil || p.tx == nil) {
		return Result{}, fmt.Errorf("store enabled without a repository")
	}

	// Step 1: Parse.
	entries, stats, err := vocab.Parse(p.cfg.InputPath)
	if err != nil {
		return Result{}, err
	}
	p.log.Info("vocabulary parsed",
		slog.String("path", p.cfg.InputPath),
		slog.Int("entries", stats.Entries),
		slog.Int("malformed", stats.Malformed),
		slog.Int("blank", stats.Blank),
	)

	result := Result{Total: len(entries), Malformed: stats.Malformed}

	// Step 2: Align.
	alignments, rowErrs, err := p.alignAll(ctx, entries)
	if err != nil {
		return result, err
	}
	for i := range rowErrs {
		p.log.Warn("row skipped",
			slog.Int("line", rowErrs[i].Line),
			slog.String("orthography", rowErrs[i].Orthography),
			slog.String("reading", rowErrs[i].Reading),
			slog.String("error", rowErrs[i].Err.Error()),
		)
	}
	result.Aligned = len(alignments)
	result.Skipped = len(rowErrs)
	result.Rows = rowErrs
	for i := range alignments {
		if !kana.ContainsLogograph(alignments[i].Orthography) {
			result.KanaOnly++
		}
	}

	if p.cfg.DryRun {
		result.Duration = time.Since(start)
		p.log.Info("dry run completed",
			slog.Int("aligned", result.Aligned),
			slog.Int("skipped", result.Skipped),
		)
		return result, nil
	}

	// Step 3: Write.
	if err := p.write(alignments); err != nil {
		return result, fmt.Errorf("write output: %w", err)
	}

	// Step 4: Store.
	if p.cfg.Store {
		run := domain.AlignmentRun{
			ID:        uuid.New(),
			InputPath: p.cfg.InputPath,
			Total:     result.Total,
			Aligned:   result.Aligned,
			Skipped:   result.Skipped,
			StartedAt: start,
		}
		stored, err := p.store(ctx, run, alignments)
		if err != nil {
			return result, fmt.Errorf("store alignments: %w", err)
		}
		result.RunID = run.ID
		result.Stored = stored
	}

	result.Duration = time.Since(start)
	p.log.Info("pipeline completed",
		slog.Int("total", result.Total),
		slog.Int("aligned", result.Aligned),
		slog.Int("kana_only", result.KanaOnly),
		slog.Int("skipped", result.Skipped),
		slog.Int("stored", result.Stored),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

// alignAll aligns entries concurrently. Output keeps input order.
// With FailOnInvalid the first row error cancels the remaining work.
func (p *Pipeline) alignAll(ctx context.Context, entries []domain.VocabEntry) ([]domain.Alignment, []RowError, error) {
	type slot struct {
		alignment domain.Alignment
		err       error
	}
	slots := make([]slot, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.cfg.Workers, 1))

	for i := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a, err := alignEntry(entries[i], p.cfg.Compact)
			slots[i] = slot{alignment: a, err: err}
			if err != nil && p.cfg.FailOnInvalid {
				return newRowError(entries[i], err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("align: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("align: %w", err)
	}

	alignments := make([]domain.Alignment, 0, len(entries))
	var rowErrs []RowError
	for i, s := range slots {
		if s.err != nil {
			rowErrs = append(rowErrs, *newRowError(entries[i], s.err))
			continue
		}
		alignments = append(alignments, s.alignment)
	}
	return alignments, rowErrs, nil
}

func (p *Pipeline) write(alignments []domain.Alignment) (err error) {
	out := p.stdout
	if p.cfg.OutputPath != "" {
		f, err := os.Create(p.cfg.OutputPath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}

	if err := vocab.NewWriter(out, p.cfg.RubyColumn).WriteAll(alignments); err != nil {
		return err
	}
	p.log.Info("aligned vocabulary written",
		slog.String("path", p.cfg.OutputPath),
		slog.Int("rows", len(alignments)),
	)
	return nil
}

// store records the run and upserts alignments in one transaction.
func (p *Pipeline) store(ctx context.Context, run domain.AlignmentRun, alignments []domain.Alignment) (int, error) {
	for i := range alignments {
		alignments[i].RunID = run.ID
	}

	var stored int
	err := p.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := p.repo.CreateRun(ctx, run); err != nil {
			return fmt.Errorf("create run: %w", err)
		}

		n, err := batchProcess(alignments, p.cfg.BatchSize, func(batch []domain.Alignment) (int, error) {
			return p.repo.BulkUpsertAlignments(ctx, batch)
		})
		if err != nil {
			return fmt.Errorf("upsert alignments: %w", err)
		}
		stored = n

		finished := p.now()
		run.FinishedAt = &finished
		if err := p.repo.FinishRun(ctx, run); err != nil {
			return fmt.Errorf("finish run: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// alignEntry segments one vocabulary row.
func alignEntry(e domain.VocabEntry, compact bool) (domain.Alignment, error) {
	if err := e.Validate(); err != nil {
		return domain.Alignment{}, err
	}

	segs, err := align.Align(e.Orthography, e.Reading)
	if err != nil {
		return domain.Alignment{}, err
	}
	if !segs.Reconstructs(e.Orthography, e.Reading) {
		return domain.Alignment{}, ErrNotReconstructed
	}
	if compact {
		segs = segs.Compact()
	}

	return domain.Alignment{
		ID:                   uuid.New(),
		Orthography:          e.Orthography,
		Reading:              e.Reading,
		Romaji:               e.Romaji,
		Meaning:              e.Meaning,
		SegmentedOrthography: segs.SourceText(" "),
		SegmentedReading:     segs.TargetText(" "),
		Furigana:             segs.Furigana(),
		SegmentCount:         len(segs),
	}, nil
}

func newRowError(e domain.VocabEntry, err error) *RowError {
	return &RowError{Line: e.Line, Orthography: e.Orthography, Reading: e.Reading, Err: err}
}

// batchProcess splits items into batches and calls fn for each.
// Returns total count from all fn calls.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
