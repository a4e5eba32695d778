// Package alignment stores aligned vocabulary and the runs that produced it.
package alignment

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/evrys/hayauchi/internal/adapter/postgres"
	"github.com/evrys/hayauchi/internal/domain"
)

const (
	runsTable       = "alignment_runs"
	alignmentsTable = "alignments"

	// maxParams is PostgreSQL's limit on bind parameters per statement.
	maxParams = 65535
)

var (
	psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	runColumns = []string{"id", "input_path", "total", "aligned", "skipped", "started_at", "finished_at"}

	alignmentColumns = []string{
		"id", "run_id", "orthography", "reading", "romaji", "meaning",
		"segmented_orthography", "segmented_reading", "furigana", "segment_count",
	}

	selectColumns = append(alignmentColumns[:len(alignmentColumns):len(alignmentColumns)], "created_at")
)

const upsertSuffix = `ON CONFLICT (orthography, reading) DO UPDATE SET
	run_id = EXCLUDED.run_id,
	romaji = EXCLUDED.romaji,
	meaning = EXCLUDED.meaning,
	segmented_orthography = EXCLUDED.segmented_orthography,
	segmented_reading = EXCLUDED.segmented_reading,
	furigana = EXCLUDED.furigana,
	segment_count = EXCLUDED.segment_count,
	updated_at = now()`

// Repo provides alignment persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new alignment repository. Calls made inside
// TxManager.RunInTx use the transaction carried by the context.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// CreateRun inserts a new run row.
func (r *Repo) CreateRun(ctx context.Context, run domain.AlignmentRun) error {
	sql, args, err := psql.Insert(runsTable).
		Columns(runColumns...).
		Values(run.ID, run.InputPath, run.Total, run.Aligned, run.Skipped, run.StartedAt, run.FinishedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert run: %w", err)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "alignment run", run.ID.String())
	}
	return nil
}

// FinishRun records the final counters and finish time of a run.
// Returns domain.ErrNotFound if the run does not exist.
func (r *Repo) FinishRun(ctx context.Context, run domain.AlignmentRun) error {
	sql, args, err := psql.Update(runsTable).
		Set("total", run.Total).
		Set("aligned", run.Aligned).
		Set("skipped", run.Skipped).
		Set("finished_at", run.FinishedAt).
		Where(squirrel.Eq{"id": run.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update run: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "alignment run", run.ID.String())
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alignment run %s: %w", run.ID, domain.ErrNotFound)
	}
	return nil
}

// GetRun returns a run by ID. Returns domain.ErrNotFound if not found.
func (r *Repo) GetRun(ctx context.Context, id uuid.UUID) (*domain.AlignmentRun, error) {
	sql, args, err := psql.Select(runColumns...).
		From(runsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select run: %w", err)
	}

	var row runRow
	if err := pgxscan.Get(ctx, r.q(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("alignment run %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "alignment run", id.String())
	}

	run := row.toDomain()
	return &run, nil
}

// ---------------------------------------------------------------------------
// Alignments
// ---------------------------------------------------------------------------

// BulkUpsertAlignments inserts alignments with multi-row INSERT statements.
// Rows whose (orthography, reading) already exist are refreshed in place and
// keep their original ID. Duplicate keys inside the input collapse to the
// last occurrence. Returns the number of rows written.
func (r *Repo) BulkUpsertAlignments(ctx context.Context, alignments []domain.Alignment) (int, error) {
	rows := dedupe(alignments)
	if len(rows) == 0 {
		return 0, nil
	}

	chunk := maxParams / len(alignmentColumns)
	total := 0
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		n, err := r.upsert(ctx, rows[start:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (r *Repo) upsert(ctx context.Context, rows []domain.Alignment) (int, error) {
	insert := psql.Insert(alignmentsTable).Columns(alignmentColumns...)
	for _, a := range rows {
		insert = insert.Values(
			a.ID, a.RunID, a.Orthography, a.Reading, a.Romaji, a.Meaning,
			a.SegmentedOrthography, a.SegmentedReading, a.Furigana, a.SegmentCount,
		)
	}

	sql, args, err := insert.Suffix(upsertSuffix).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build upsert alignments: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, postgres.MapError(err, "alignments", fmt.Sprintf("batch of %d", len(rows)))
	}
	return int(tag.RowsAffected()), nil
}

// GetByOrthography returns every stored reading of a spelling, ordered by
// reading. An unknown spelling yields an empty slice.
func (r *Repo) GetByOrthography(ctx context.Context, orthography string) ([]domain.Alignment, error) {
	sql, args, err := psql.Select(selectColumns...).
		From(alignmentsTable).
		Where(squirrel.Eq{"orthography": orthography}).
		OrderBy("reading ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select alignments: %w", err)
	}

	var rows []alignmentRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "alignments", orthography)
	}

	result := make([]domain.Alignment, len(rows))
	for i := range rows {
		result[i] = rows[i].toDomain()
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type runRow struct {
	ID         uuid.UUID  `db:"id"`
	InputPath  string     `db:"input_path"`
	Total      int        `db:"total"`
	Aligned    int        `db:"aligned"`
	Skipped    int        `db:"skipped"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

func (r runRow) toDomain() domain.AlignmentRun {
	return domain.AlignmentRun{
		ID:         r.ID,
		InputPath:  r.InputPath,
		Total:      r.Total,
		Aligned:    r.Aligned,
		Skipped:    r.Skipped,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

type alignmentRow struct {
	ID                   uuid.UUID `db:"id"`
	RunID                uuid.UUID `db:"run_id"`
	Orthography          string    `db:"orthography"`
	Reading              string    `db:"reading"`
	Romaji               string    `db:"romaji"`
	Meaning              string    `db:"meaning"`
	SegmentedOrthography string    `db:"segmented_orthography"`
	SegmentedReading     string    `db:"segmented_reading"`
	Furigana             string    `db:"furigana"`
	SegmentCount         int       `db:"segment_count"`
	CreatedAt            time.Time `db:"created_at"`
}

func (r alignmentRow) toDomain() domain.Alignment {
	return domain.Alignment{
		ID:                   r.ID,
		RunID:                r.RunID,
		Orthography:          r.Orthography,
		Reading:              r.Reading,
		Romaji:               r.Romaji,
		Meaning:              r.Meaning,
		SegmentedOrthography: r.SegmentedOrthography,
		SegmentedReading:     r.SegmentedReading,
		Furigana:             r.Furigana,
		SegmentCount:         r.SegmentCount,
		CreatedAt:            r.CreatedAt,
	}
}

type key struct {
	orthography string
	reading     string
}

// dedupe keeps the last alignment for every (orthography, reading) at the
// position of its first occurrence.
func dedupe(alignments []domain.Alignment) []domain.Alignment {
	seen := make(map[key]int, len(alignments))
	out := make([]domain.Alignment, 0, len(alignments))
	for _, a := range alignments {
		k := key{a.Orthography, a.Reading}
		if i, ok := seen[k]; ok {
			out[i] = a
			continue
		}
		seen[k] = len(out)
		out = append(out, a)
	}
	return out
}
