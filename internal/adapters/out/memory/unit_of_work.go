package memory

import (
	"context"
	"errors"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/pkg/errs"
)

var ErrNoActiveTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork serializes writers on the store. It is not safe for use by
// multiple goroutines; create one per command.
type UnitOfWork struct {
	store  *Store
	active bool
	staged map[kernel.UUID]*order.Order
	added  []kernel.UUID
}

// Begin blocks until the store's write lock is acquired. A second Begin on an
// active unit of work is a no-op.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	if uow.active {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	uow.store.mu.Lock()
	uow.active = true
	uow.staged = make(map[kernel.UUID]*order.Order)
	uow.added = nil
	return nil
}

// Commit applies staged writes in the order they were made and releases the lock.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	s := uow.store
	for _, id := range uow.added {
		s.nextSeq++
		s.records[id] = record{order: uow.staged[id], seq: s.nextSeq}
		delete(uow.staged, id)
	}
	for id, o := range uow.staged {
		rec := s.records[id]
		rec.order = o
		s.records[id] = rec
	}

	uow.end()
	return nil
}

// Rollback discards staged writes and releases the lock.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	uow.end()
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: uow}
}

func (uow *UnitOfWork) end() {
	uow.active = false
	uow.staged = nil
	uow.added = nil
	uow.store.mu.Unlock()
}

// lookup sees staged changes before committed state. The caller holds the lock.
func (uow *UnitOfWork) lookup(id kernel.UUID) (*order.Order, bool) {
	if o, ok := uow.staged[id]; ok {
		return o, true
	}
	rec, ok := uow.store.records[id]
	if !ok {
		return nil, false
	}
	return rec.order, true
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if !r.uow.active {
		return ErrNoActiveTransaction
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.lookup(aggregate.ID()); exists {
		return errs.NewObjectAlreadyExistsError("orderId", aggregate.ID())
	}

	r.uow.staged[aggregate.ID()] = aggregate.Clone()
	r.uow.added = append(r.uow.added, aggregate.ID())
	return nil
}

func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if !r.uow.active {
		return ErrNoActiveTransaction
	}
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, exists := r.uow.lookup(aggregate.ID()); !exists {
		return errs.NewObjectNotFoundError("orderId", aggregate.ID())
	}

	r.uow.staged[aggregate.ID()] = aggregate.Clone()
	return nil
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if !r.uow.active {
		return nil, ErrNoActiveTransaction
	}

	o, ok := r.uow.lookup(id)
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", id)
	}
	return o.Clone(), nil
}
