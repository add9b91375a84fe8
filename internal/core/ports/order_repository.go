// Package ports defines the contracts between the order pipeline and its
// infrastructure: storage, transactions and external collaborators.
package ports

import (
	"context"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Implementations hand out copies; changes become visible only through Add
// and Update.
type OrderRepository interface {
	// Add persists a new order. Returns an error wrapping
	// errs.ErrObjectAlreadyExists if the identifier is taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order.
	// Returns an error wrapping errs.ErrObjectNotFound if it does not exist.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by identifier.
	// Returns an error wrapping errs.ErrObjectNotFound if it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderFilter narrows List results. The zero value matches every order.
type OrderFilter struct {
	// Status, when not order.Unknown, keeps only orders in that status.
	Status order.Status
	// Limit, when positive, caps the number of results.
	Limit int
}

// OrderReader serves read-only queries outside any unit of work.
type OrderReader interface {
	// Get retrieves an order by identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns matching orders, newest created first. Orders created at the
	// same instant come back in reverse insertion order.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
