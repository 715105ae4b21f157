// Package tx carries a SQL transaction through context so stores can join an
// ambient transaction without changing their signatures.
package tx

import (
	"context"
	"database/sql"
)

type contextKey struct{}

// WithTx returns a context carrying the transaction. A nil transaction leaves
// the context unchanged.
func WithTx(ctx context.Context, transaction *sql.Tx) context.Context {
	if transaction == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, transaction)
}

// From reports the transaction carried by ctx, if any. Stores prefer it over
// their own connection so multi-store operations commit atomically.
func From(ctx context.Context) (*sql.Tx, bool) {
	transaction, ok := ctx.Value(contextKey{}).(*sql.Tx)
	return transaction, ok
}
