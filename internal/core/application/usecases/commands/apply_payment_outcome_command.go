package commands

import (
	"errors"
	"fmt"
	"strings"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/pkg/errs"
	"emojiorder/internal/pkg/guard"
)

var ErrApplyPaymentOutcomeCommandIsNotConstructed = errors.New(
	"ApplyPaymentOutcomeCommand must be created via NewApplyPaymentOutcomeCommand constructor",
)

// PaymentOutcome is the final word of the payment collaborator or ledger
// about a charge.
type PaymentOutcome int

const (
	PaymentOutcomeUnknown PaymentOutcome = iota
	PaymentOutcomeSuccess
	PaymentOutcomeFailed
	PaymentOutcomeTimeout
)

func (p PaymentOutcome) String() string {
	switch p {
	case PaymentOutcomeSuccess:
		return "success"
	case PaymentOutcomeFailed:
		return "failed"
	case PaymentOutcomeTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// TargetStatus is the order status the outcome leads to.
func (p PaymentOutcome) TargetStatus() order.Status {
	switch p {
	case PaymentOutcomeSuccess:
		return order.Paid
	case PaymentOutcomeFailed, PaymentOutcomeTimeout:
		return order.Cancelled
	default:
		return order.Unknown
	}
}

func ParsePaymentOutcome(s string) (PaymentOutcome, error) {
	for _, p := range []PaymentOutcome{PaymentOutcomeSuccess, PaymentOutcomeFailed, PaymentOutcomeTimeout} {
		if strings.EqualFold(strings.TrimSpace(s), p.String()) {
			return p, nil
		}
	}
	return PaymentOutcomeUnknown, errs.NewValueIsInvalidErrorWithCause(
		"outcome", fmt.Errorf("%q is not a valid payment outcome", s),
	)
}

// ApplyPaymentOutcomeCommand settles an order after the charge completed.
type ApplyPaymentOutcomeCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	outcome PaymentOutcome

	guard guard.ConstructorGuard
}

func NewApplyPaymentOutcomeCommand(orderID kernel.UUID, outcome PaymentOutcome) (ApplyPaymentOutcomeCommand, error) {
	var outcomeErr error
	if outcome.TargetStatus() == order.Unknown {
		outcomeErr = errs.NewValueIsRequiredError("outcome")
	}

	if err := errors.Join(orderID.Validate(), outcomeErr); err != nil {
		return ApplyPaymentOutcomeCommand{}, err
	}

	return ApplyPaymentOutcomeCommand{
		orderID: orderID,
		outcome: outcome,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyPaymentOutcomeCommand) Validate() error {
	return c.guard.Validate(ErrApplyPaymentOutcomeCommandIsNotConstructed)
}

func (c ApplyPaymentOutcomeCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ApplyPaymentOutcomeCommand) Outcome() PaymentOutcome {
	return c.outcome
}
