package commands

import (
	"context"
	"log/slog"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
)

// UpdateOrderStatusCommandHandler applies state machine transitions.
// Concurrent transitions on the same order are serialized by the unit of work,
// so of two racing CONFIRMED -> PAID and CONFIRMED -> CANCELLED requests exactly
// one wins and the other gets order.ErrInvalidTransition.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      kernel.Clock
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	clock kernel.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		notifier:   notifier,
		logger:     logger.With("component", "update_order_status_handler"),
	}
}

// Handle returns the updated order. Errors wrap errs.ErrObjectNotFound or
// order.ErrInvalidTransition.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	updated, err := transition(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.ChangeStatus(cmd.Status(), h.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order status changed",
		"order_id", updated.ID().String(), "status", updated.Status().String())
	h.notifier.TriggerOrderAction(ctx, updated.ID().String(), map[string]any{
		"status": updated.Status().String(),
		"total":  updated.Total().String(),
	})

	return updated, nil
}

// transition loads an order under a unit of work, applies mutate and persists
// the result.
func transition(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	mutate func(o *order.Order) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = mutate(o); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
