// Package catalog implements the consistency engine for the financial
// catalog: category hierarchy integrity, the single-default-account
// invariant, usage-guarded deletion, and the soft-delete lifecycle.
//
// Every operation runs against one store transaction; reads the invariant
// logic depends on are taken from that transaction's view, never from state
// cached before it began.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/finbook/finbook/internal/common"
	"github.com/finbook/finbook/internal/service"
)

// Service coordinates catalog mutations with their invariant checks.
type Service struct {
	store service.Storage
	retry service.RetryOptions
}

// New creates a catalog service backed by the given store.
func New(store service.Storage) *Service {
	return &Service{
		store: store,
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 50 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Store exposes the underlying storage for read-only collaborators.
func (s *Service) Store() service.Storage {
	return s.store
}

// withTx runs fn inside a store transaction, rolling back on error. A run
// that loses the write lock to a concurrent writer is retried as a whole,
// re-reading its inputs from the fresh transaction.
func (s *Service) withTx(ctx context.Context, fn func(tx service.Transaction) error) error {
	return common.WithRetry(ctx, func() error {
		return s.runTx(ctx, fn)
	}, s.retry)
}

func (s *Service) runTx(ctx context.Context, fn func(tx service.Transaction) error) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
