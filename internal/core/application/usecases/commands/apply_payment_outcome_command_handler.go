package commands

import (
	"context"
	"log/slog"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
)

// ApplyPaymentOutcomeCommandHandler moves an order to PAID on a successful
// payment and to CANCELLED on a failed or timed out one.
//
// Outcomes are redelivered by webhooks, so an order already in the target
// status is returned unchanged. A success for an order still PENDING (paid
// without a checkout round-trip) passes through CONFIRMED first.
type ApplyPaymentOutcomeCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewApplyPaymentOutcomeCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) ApplyPaymentOutcomeCommandHandler {
	return ApplyPaymentOutcomeCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   notifier,
		logger:     logger.With("component", "apply_payment_outcome_handler"),
	}
}

func (h *ApplyPaymentOutcomeCommandHandler) Handle(
	ctx context.Context,
	cmd ApplyPaymentOutcomeCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	target := cmd.Outcome().TargetStatus()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if o.Status() == target {
		h.logger.DebugContext(ctx, "payment outcome already applied",
			"order_id", o.ID().String(), "outcome", cmd.Outcome().String())
		return o, nil
	}

	now := h.clock.Now()
	if target == order.Paid && o.Status() == order.Pending {
		if err = o.ChangeStatus(order.Confirmed, now); err != nil {
			return nil, err
		}
	}

	if err = o.ChangeStatus(target, now); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "payment outcome applied",
		"order_id", o.ID().String(), "outcome", cmd.Outcome().String(), "status", o.Status().String())
	h.notifier.TriggerOrderAction(ctx, o.ID().String(), map[string]any{
		"status":  o.Status().String(),
		"payment": cmd.Outcome().String(),
	})

	return o, nil
}
