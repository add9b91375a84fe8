package commands_test

import (
	"errors"
	"testing"

	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckoutOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	existing := newPendingOrder(t)
	stored := existing.Clone()
	cmd, err := commands.NewCheckoutOrderCommand(existing.ID(), "", "https://shop.example/thanks")
	require.NoError(t, err)
	assert.Equal(t, "USD", cmd.Currency())

	reader := new(MockOrderReader)
	reader.On("Get", ctx, existing.ID()).Return(existing, nil).Once()

	charge := ports.Charge{Reference: "CHG-1", PaymentURL: "https://pay.example/CHG-1"}
	gateway := new(MockPaymentGateway)
	gateway.On("CreateCharge", ctx, ports.ChargeRequest{
		OrderID:      existing.ID(),
		CustomerName: "Ada",
		ItemCount:    2,
		Amount:       existing.Total(),
		Currency:     "USD",
		RedirectURL:  "https://shop.example/thanks",
	}).Return(charge, nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, existing.ID()).Return(stored, nil).Once(),
		repo.On("Update", ctx, stored).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCheckoutOrderCommandHandler(factory, reader, gateway, fixedNow, discardLogger())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, result.Degraded())
	assert.Equal(t, charge, result.Charge)
	assert.Equal(t, order.Confirmed, result.Order.Status())
	assert.Equal(t, "CHG-1", result.Order.PaymentReference())

	gateway.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCheckoutOrderCommandHandler_Handle_GatewayFailureLeavesOrderPending(t *testing.T) {
	ctx := t.Context()
	existing := newPendingOrder(t)
	cmd, err := commands.NewCheckoutOrderCommand(existing.ID(), "usd", "")
	require.NoError(t, err)

	reader := new(MockOrderReader)
	reader.On("Get", ctx, existing.ID()).Return(existing, nil).Once()

	gatewayErr := ports.NewCollaboratorUnavailableError("payments", errors.New("connection refused"))
	gateway := new(MockPaymentGateway)
	gateway.On("CreateCharge", ctx, mock.Anything).Return(ports.Charge{}, gatewayErr).Once()

	factory := new(MockOrderUoWFactory)

	h := commands.NewCheckoutOrderCommandHandler(factory, reader, gateway, fixedNow, discardLogger())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, result.Degraded())
	require.ErrorIs(t, result.PaymentError, ports.ErrCollaboratorUnavailable)
	assert.Equal(t, order.Pending, result.Order.Status())
	assert.Empty(t, result.Order.PaymentReference())

	factory.AssertNotCalled(t, "Create")
}

func TestCheckoutOrderCommandHandler_Handle_RejectsNonPendingOrder(t *testing.T) {
	ctx := t.Context()
	existing := orderInStatus(t, order.Confirmed, order.Paid)
	cmd, err := commands.NewCheckoutOrderCommand(existing.ID(), "", "")
	require.NoError(t, err)

	reader := new(MockOrderReader)
	reader.On("Get", ctx, existing.ID()).Return(existing, nil).Once()
	gateway := new(MockPaymentGateway)

	h := commands.NewCheckoutOrderCommandHandler(new(MockOrderUoWFactory), reader, gateway, fixedNow, discardLogger())
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	gateway.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
}
