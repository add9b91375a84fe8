package commands

import (
	"errors"

	"emojiorder/internal/core/domain/services"
	"emojiorder/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places a new order from an already resolved emoji string.
//
// Example:
//
//	resolved, err := resolver.Resolve("☕☕🥐🚀")
//	if err != nil {
//	    return err
//	}
//	cmd, err := NewCreateOrderCommand(resolved, "Ada")
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	resolved     services.ResolvedOrder
	customerName string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates that the resolved order came from the
// resolver. An empty customer name means an anonymous order.
func NewCreateOrderCommand(resolved services.ResolvedOrder, customerName string) (CreateOrderCommand, error) {
	if err := resolved.Validate(); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		resolved:     resolved,
		customerName: customerName,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Resolved() services.ResolvedOrder {
	return c.resolved
}

func (c CreateOrderCommand) CustomerName() string {
	return c.customerName
}
