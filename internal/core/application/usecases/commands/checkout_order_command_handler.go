package commands

import (
	"context"
	"log/slog"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
)

// CheckoutResult reports the checkout outcome. When PaymentError is set the
// order was left untouched and the caller should present a degraded success.
type CheckoutResult struct {
	Order        *order.Order
	Charge       ports.Charge
	PaymentError error
}

func (r CheckoutResult) Degraded() bool {
	return r.PaymentError != nil
}

// CheckoutOrderCommandHandler creates a payment charge for a PENDING order,
// then attaches the charge reference and confirms the order.
//
// The gateway is called with no unit of work open. If the order leaves
// PENDING while the charge is being created, the confirmation fails with
// order.ErrInvalidTransition.
type CheckoutOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	reader     ports.OrderReader
	gateway    ports.PaymentGateway
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCheckoutOrderCommandHandler(
	uowFactory OrderUoWFactory,
	reader ports.OrderReader,
	gateway ports.PaymentGateway,
	clock kernel.Clock,
	logger *slog.Logger,
) CheckoutOrderCommandHandler {
	return CheckoutOrderCommandHandler{
		uowFactory: uowFactory,
		reader:     reader,
		gateway:    gateway,
		clock:      clock,
		logger:     logger.With("component", "checkout_order_handler"),
	}
}

func (h *CheckoutOrderCommandHandler) Handle(ctx context.Context, cmd CheckoutOrderCommand) (CheckoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	current, err := h.reader.Get(ctx, cmd.OrderID())
	if err != nil {
		return CheckoutResult{}, err
	}

	if _, err = current.Status().TransitionTo(order.Confirmed); err != nil {
		return CheckoutResult{}, err
	}

	charge, err := h.gateway.CreateCharge(ctx, ports.ChargeRequest{
		OrderID:      current.ID(),
		CustomerName: current.CustomerName(),
		ItemCount:    len(current.LineItems()),
		Amount:       current.Total(),
		Currency:     cmd.Currency(),
		RedirectURL:  cmd.RedirectURL(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "payment charge failed, order left pending",
			"order_id", current.ID().String(), "error", err)
		return CheckoutResult{Order: current, PaymentError: err}, nil
	}

	confirmed, err := transition(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		now := h.clock.Now()
		if err := o.AttachPaymentReference(charge.Reference, charge.PaymentURL, now); err != nil {
			return err
		}
		return o.ChangeStatus(order.Confirmed, now)
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	h.logger.InfoContext(ctx, "order checked out",
		"order_id", confirmed.ID().String(), "reference", charge.Reference, "demo", charge.Demo)

	return CheckoutResult{Order: confirmed, Charge: charge}, nil
}
