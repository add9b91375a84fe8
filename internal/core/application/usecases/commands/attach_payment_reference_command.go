package commands

import (
	"errors"
	"strings"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/pkg/errs"
	"emojiorder/internal/pkg/guard"
)

var ErrAttachPaymentReferenceCommandIsNotConstructed = errors.New(
	"AttachPaymentReferenceCommand must be created via NewAttachPaymentReferenceCommand constructor",
)

// AttachPaymentReferenceCommand records the payment reference issued by the
// payment collaborator. It does not change the order status.
type AttachPaymentReferenceCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	reference  string
	paymentURL string

	guard guard.ConstructorGuard
}

func NewAttachPaymentReferenceCommand(
	orderID kernel.UUID,
	reference string,
	paymentURL string,
) (AttachPaymentReferenceCommand, error) {
	cmd := AttachPaymentReferenceCommand{
		paymentURL: strings.TrimSpace(paymentURL),
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReference(reference),
	); err != nil {
		return AttachPaymentReferenceCommand{}, err
	}

	return cmd, nil
}

func (c AttachPaymentReferenceCommand) Validate() error {
	return c.guard.Validate(ErrAttachPaymentReferenceCommandIsNotConstructed)
}

func (c AttachPaymentReferenceCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AttachPaymentReferenceCommand) Reference() string {
	return c.reference
}

func (c AttachPaymentReferenceCommand) PaymentURL() string {
	return c.paymentURL
}

func (c *AttachPaymentReferenceCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AttachPaymentReferenceCommand) setReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}

	c.reference = reference
	return nil
}
