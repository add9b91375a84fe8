package commands

import (
	"errors"
	"strings"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/pkg/guard"
)

var ErrCheckoutOrderCommandIsNotConstructed = errors.New(
	"CheckoutOrderCommand must be created via NewCheckoutOrderCommand constructor",
)

// CheckoutOrderCommand asks the payment collaborator to bill a pending order.
// RedirectURL is where the hosted checkout sends the customer afterwards and
// may be empty.
type CheckoutOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	currency    string
	redirectURL string

	guard guard.ConstructorGuard
}

func NewCheckoutOrderCommand(orderID kernel.UUID, currency, redirectURL string) (CheckoutOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CheckoutOrderCommand{}, err
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}

	return CheckoutOrderCommand{
		orderID:     orderID,
		currency:    currency,
		redirectURL: strings.TrimSpace(redirectURL),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c CheckoutOrderCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutOrderCommandIsNotConstructed)
}

func (c CheckoutOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CheckoutOrderCommand) Currency() string {
	return c.currency
}

func (c CheckoutOrderCommand) RedirectURL() string {
	return c.redirectURL
}
