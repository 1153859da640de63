// Package repokit is what repositories import instead of a driver: the query seams,
// a binder contract, and the transaction helper
package repokit

import (
	"context"

	perr "tomotrip/internal/platform/errors"
	"tomotrip/internal/platform/logger"
	"tomotrip/internal/platform/store"
)

type (
	// Queryer is the read and write surface a repo is bound to
	Queryer = store.RowQuerier

	// TxRunner opens transactions
	TxRunner = store.TxRunner

	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder produces a repo bound to a Queryer, either the pool or a transaction
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a plain constructor into a Binder
type BindFunc[T any] func(Queryer) T

func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// TxAttempts bounds WithTx retries on serialization failures and deadlocks
var TxAttempts = 3

// WithTx runs fn in a transaction, retrying the whole function while Postgres
// reports contention. fn must therefore be safe to run more than once.
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	var err error
	for attempt := 1; attempt <= TxAttempts; attempt++ {
		err = tx.Tx(ctx, fn)
		if err == nil || !perr.IsRetryable(err) || ctx.Err() != nil {
			return err
		}
		logger.C(ctx).Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")
	}
	return err
}
