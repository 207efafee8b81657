package memory

import (
	"context"

	"leadtrack/internal/domain/repository"
)

// txManager implements repository.TransactionManager over a Store. Each
// transaction runs serialized under the store mutex against a deep copy of the
// dataset; the copy replaces the live dataset only on success.
type txManager struct {
	store *Store
}

// NewTransactionManager creates a TransactionManager bound to the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &txManager{store: store}
}

// Execute runs fn against a working copy and commits it atomically.
func (tm *txManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	work := tm.store.data.clone()
	if err := fn(&txRepositoryFactory{data: work}); err != nil {
		return err
	}

	tm.store.data = work

	return nil
}
