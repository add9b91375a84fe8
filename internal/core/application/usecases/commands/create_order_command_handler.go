package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/pkg/errs"
)

const maxCreateAttempts = 3

// CreateOrderCommandHandler persists new orders in PENDING status.
// A freshly generated id that collides with a stored order is replaced and the
// insert retried, so ids are never reused.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	ids        kernel.IDGenerator
	clock      kernel.Clock
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	ids kernel.IDGenerator,
	clock kernel.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		ids:        ids,
		clock:      clock,
		notifier:   notifier,
		logger:     logger.With("component", "create_order_handler"),
	}
}

// Handle stores the order and announces it through the notifier once the
// unit of work has committed. Notification failures do not fail the order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := range maxCreateAttempts {
		created, err := h.create(ctx, cmd)
		if err == nil {
			h.announce(ctx, created)
			return created, nil
		}
		if !errors.Is(err, errs.ErrObjectAlreadyExists) {
			return nil, err
		}

		h.logger.WarnContext(ctx, "order id collision, retrying", "attempt", attempt+1, "error", err)
		lastErr = err
	}

	return nil, fmt.Errorf("create order after %d attempts: %w", maxCreateAttempts, lastErr)
}

func (h *CreateOrderCommandHandler) create(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	resolved := cmd.Resolved()
	created, err := order.NewOrder(
		h.ids.NewID(),
		cmd.CustomerName(),
		resolved.LineItems(),
		resolved.ModifierLineItems(),
		h.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

func (h *CreateOrderCommandHandler) announce(ctx context.Context, o *order.Order) {
	customer := o.CustomerName()
	if customer == "" {
		customer = "Guest"
	}

	message := fmt.Sprintf("Order #%s from %s: %d items, total $%s",
		o.ID(), customer, len(o.LineItems()), o.Total())
	if !h.notifier.Notify(ctx, "New emoji order", message) {
		h.logger.InfoContext(ctx, "order notification not delivered", "order_id", o.ID().String())
	}
}
