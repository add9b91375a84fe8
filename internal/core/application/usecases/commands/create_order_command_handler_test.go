package commands_test

import (
	"errors"
	"testing"

	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/domain/services"
	"emojiorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand(resolve(t, "🍕"), "Ada")
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, "Ada", cmd.CustomerName())

	_, err = commands.NewCreateOrderCommand(services.ResolvedOrder{}, "Ada")
	require.ErrorIs(t, err, services.ErrResolvedOrderIsNotConstructed)

	require.ErrorIs(t, commands.CreateOrderCommand{}.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(resolve(t, "☕☕🥐🚀"), "Ada")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, "New emoji order", mock.MatchedBy(func(msg string) bool {
		return assert.Contains(t, msg, "from Ada: 2 items, total $9.50")
	})).Return(true).Once()

	h := commands.NewCreateOrderCommandHandler(
		factory, kernel.IDGeneratorFunc(func() kernel.UUID { return id }), fixedNow, notifier, discardLogger(),
	)
	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, id.IsEqual(created.ID()))
	assert.Equal(t, order.Pending, created.Status())
	assert.Equal(t, "9.50", created.Total().String())
	assert.Equal(t, []string{"Express"}, created.ModifierNames())
	assert.Equal(t, fixedNow.Now(), created.CreatedAt())

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_RetriesOnIDCollision(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(resolve(t, "🍕"), "")
	require.NoError(t, err)

	taken, fresh := kernel.NewUUID(), kernel.NewUUID()
	ids := []kernel.UUID{taken, fresh}
	generator := kernel.IDGeneratorFunc(func() kernel.UUID {
		next := ids[0]
		ids = ids[1:]
		return next
	})

	repo := new(MockOrderRepository)
	repo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool { return o.ID().IsEqual(taken) })).
		Return(errs.NewObjectAlreadyExistsError("order", taken)).Once()
	repo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool { return o.ID().IsEqual(fresh) })).
		Return(nil).Once()

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Twice()
	uow.On("OrderRepository").Return(repo).Twice()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Twice()

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Twice()

	notifier := new(MockNotifier)
	notifier.On("Notify", ctx, mock.Anything, mock.MatchedBy(func(msg string) bool {
		return assert.Contains(t, msg, "from Guest")
	})).Return(false).Once()

	h := commands.NewCreateOrderCommandHandler(factory, generator, fixedNow, notifier, discardLogger())
	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, fresh.IsEqual(created.ID()))

	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(resolve(t, "🍕"), "")
	require.NoError(t, err)

	id := kernel.NewUUID()
	repo := new(MockOrderRepository)
	repo.On("Add", ctx, mock.Anything).Return(errs.NewObjectAlreadyExistsError("order", id)).Times(3)

	uow := new(MockOrderUoW)
	uow.On("Begin", ctx).Return(nil).Times(3)
	uow.On("OrderRepository").Return(repo).Times(3)
	uow.On("Rollback", ctx).Return(nil).Times(3)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Times(3)

	notifier := new(MockNotifier)
	h := commands.NewCreateOrderCommandHandler(
		factory, kernel.IDGeneratorFunc(func() kernel.UUID { return id }), fixedNow, notifier, discardLogger(),
	)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)

	repo.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	h := commands.NewCreateOrderCommandHandler(
		factory, kernel.RandomIDGenerator{}, fixedNow, new(MockNotifier), discardLogger(),
	)
	_, err := h.Handle(t.Context(), commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(resolve(t, "🍕"), "")
	require.NoError(t, err)

	uow := new(MockOrderUoW)
	factory := new(MockOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewCreateOrderCommandHandler(
		factory, kernel.RandomIDGenerator{}, fixedNow, new(MockNotifier), discardLogger(),
	)
	_, err = h.Handle(ctx, cmd)
	require.EqualError(t, err, "begin error")
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(resolve(t, "🍕"), "")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(
		factory, kernel.RandomIDGenerator{}, fixedNow, new(MockNotifier), discardLogger(),
	)
	_, err = h.Handle(ctx, cmd)
	require.EqualError(t, err, "commit error")
	uow.AssertExpectations(t)
}
