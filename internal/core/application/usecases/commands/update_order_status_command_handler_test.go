package commands_test

import (
	"testing"

	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewUpdateOrderStatusCommand(id, order.Confirmed)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, order.Confirmed, cmd.Status())

	_, err = commands.NewUpdateOrderStatusCommand(kernel.UUID{}, order.Unknown)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestUpdateOrderStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	existing := newPendingOrder(t)
	cmd, err := commands.NewUpdateOrderStatusCommand(existing.ID(), order.Confirmed)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		repo.On("Update", ctx, existing).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("TriggerOrderAction", ctx, existing.ID().String(), map[string]any{
		"status": "confirmed",
		"total":  "8.00",
	}).Return(true).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factory, fixedNow, notifier, discardLogger())
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, updated.Status())
	assert.Equal(t, fixedNow.Now(), updated.UpdatedAt())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpdateOrderStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	existing := orderInStatus(t, order.Cancelled)
	cmd, err := commands.NewUpdateOrderStatusCommand(existing.ID(), order.Paid)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, existing.ID()).Return(existing, nil).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	h := commands.NewUpdateOrderStatusCommandHandler(factory, fixedNow, notifier, discardLogger())
	_, err = h.Handle(ctx, cmd)

	var transitionErr *order.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, order.Cancelled, transitionErr.From)
	assert.Equal(t, order.Paid, transitionErr.To)
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	notifier.AssertNotCalled(t, "TriggerOrderAction", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewUpdateOrderStatusCommand(id, order.Confirmed)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("orderId", id)).Once()
	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(repo).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewUpdateOrderStatusCommandHandler(factory, fixedNow, new(MockNotifier), discardLogger())
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestAttachPaymentReferenceCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	existing := newPendingOrder(t)

	_, err := commands.NewAttachPaymentReferenceCommand(existing.ID(), "  ", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewAttachPaymentReferenceCommand(existing.ID(), " CHG-42 ", " https://pay.example/CHG-42 ")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", ctx, existing.ID()).Return(existing, nil).Once(),
		repo.On("Update", ctx, existing).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAttachPaymentReferenceCommandHandler(factory, fixedNow)
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, "CHG-42", updated.PaymentReference())
	assert.Equal(t, "https://pay.example/CHG-42", updated.PaymentURL())
	assert.Equal(t, order.Pending, updated.Status())
	uow.AssertExpectations(t)
}
