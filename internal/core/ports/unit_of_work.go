package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Between Begin and
// Commit/Rollback no other unit of work can change the orders it touches, so
// concurrent status changes on the same order are serialized.
//
// Collaborator calls (payments, notifications, ledgers) must never run while
// a unit of work is open.
type UnitOfWork interface {
	// Begin starts the transaction.
	Begin(ctx context.Context) error

	// Commit makes staged changes visible and ends the transaction.
	Commit(ctx context.Context) error

	// Rollback discards staged changes and ends the transaction.
	// Returns an error if no transaction is active.
	Rollback(ctx context.Context) error

	// OrderRepository returns a repository bound to the current transaction.
	OrderRepository() OrderRepository
}
