package leave

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"intranet/internal/platform/querier"
)

type Store struct {
	pool *pgxpool.Pool
	q    querier.Querier
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

// WithTx runs fn against a store bound to a single transaction. Nested calls
// reuse the ambient transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx StoreAPI) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(&Store{q: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
