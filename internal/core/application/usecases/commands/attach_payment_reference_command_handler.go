package commands

import (
	"context"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
)

// AttachPaymentReferenceCommandHandler stores a payment reference on an order.
type AttachPaymentReferenceCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
}

func NewAttachPaymentReferenceCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
) AttachPaymentReferenceCommandHandler {
	return AttachPaymentReferenceCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *AttachPaymentReferenceCommandHandler) Handle(
	ctx context.Context,
	cmd AttachPaymentReferenceCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transition(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.AttachPaymentReference(cmd.Reference(), cmd.PaymentURL(), h.clock.Now())
	})
}
