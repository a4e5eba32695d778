// Package aligner runs furigana alignment over vocabulary lists.
package aligner

import (
	"context"

	"github.com/evrys/hayauchi/internal/domain"
)

// AlignmentRepo defines the repository contract consumed by the pipeline.
// Implemented by alignment.Repo.
type AlignmentRepo interface {
	CreateRun(ctx context.Context, run domain.AlignmentRun) error
	FinishRun(ctx context.Context, run domain.AlignmentRun) error

	// BulkUpsertAlignments inserts or refreshes alignments keyed by
	// (orthography, reading) and returns the number of rows written.
	BulkUpsertAlignments(ctx context.Context, alignments []domain.Alignment) (int, error)
}

// TxRunner runs fn inside one database transaction.
// Implemented by postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
