package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of a connection the alignment store uses. It is
// satisfied by *pgxpool.Pool, by the pgx.Tx opened in RunInTx and by
// pgxmock pools. pgxscan reads through Query.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type runTxKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, runTxKey{}, tx)
}

// QuerierFromCtx returns the transaction RunInTx placed in ctx, so a run
// row and its alignment batches commit or roll back together. Outside
// RunInTx it returns db.
func QuerierFromCtx(ctx context.Context, db Querier) Querier {
	if tx, ok := ctx.Value(runTxKey{}).(pgx.Tx); ok {
		return tx
	}
	return db
}
