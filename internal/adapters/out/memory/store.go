// Package memory is the default order store: a single authoritative map of
// orders guarded by one read-write mutex.
//
// Writers go through a UnitOfWork, which holds the write lock from Begin until
// Commit or Rollback and stages its changes until Commit. Readers take the
// read lock and always receive clones, so nothing outside the store can alter
// stored state.
//
// Usage:
//
//	store := memory.NewStore()
//	factory := memory.NewUnitOfWorkFactory(store)
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/pkg/errs"
)

var _ ports.OrderReader = (*Store)(nil)

type record struct {
	order *order.Order
	// seq is the insertion sequence, used to order orders created at the same instant.
	seq uint64
}

// Store keeps every order ever created. Orders are never evicted.
type Store struct {
	mu      sync.RWMutex
	records map[kernel.UUID]record
	nextSeq uint64
}

func NewStore() *Store {
	return &Store{records: make(map[kernel.UUID]record)}
}

// Get returns a copy of the stored order.
func (s *Store) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return rec.order.Clone(), nil
}

// List returns copies of the matching orders, newest created first.
func (s *Store) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	s.mu.RLock()
	matched := make([]record, 0, len(s.records))
	for _, rec := range s.records {
		if filter.Status != order.Unknown && rec.order.Status() != filter.Status {
			continue
		}
		matched = append(matched, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b record) int {
		if c := b.order.CreatedAt().Compare(a.order.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.seq, a.seq)
	})

	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	result := make([]*order.Order, 0, len(matched))
	for _, rec := range matched {
		result = append(result, rec.order.Clone())
	}
	return result, nil
}

// Len reports the number of stored orders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
