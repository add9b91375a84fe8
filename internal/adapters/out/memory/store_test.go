package memory_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"emojiorder/internal/adapters/out/memory"
	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/domain/model/catalog"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/domain/services"
	"emojiorder/internal/core/ports"
	"emojiorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

type uowFactory struct{ f *memory.UnitOfWorkFactory }

func (u uowFactory) Create() commands.OrderUoW { return u.f.Create() }

type silentNotifier struct{}

func (silentNotifier) Notify(_ context.Context, _, _ string) bool { return true }

func (silentNotifier) TriggerOrderAction(_ context.Context, _ string, _ map[string]any) bool {
	return true
}

func newOrder(t *testing.T, input string, at time.Time) *order.Order {
	t.Helper()
	resolved, err := services.NewOrderResolver(catalog.Default()).Resolve(input)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), "", resolved.LineItems(), resolved.ModifierLineItems(), at)
	require.NoError(t, err)
	return o
}

func add(t *testing.T, factory *memory.UnitOfWorkFactory, orders ...*order.Order) {
	t.Helper()
	ctx := t.Context()
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	for _, o := range orders {
		require.NoError(t, uow.OrderRepository().Add(ctx, o))
	}
	require.NoError(t, uow.Commit(ctx))
}

func TestStore_AddAndGet(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	o := newOrder(t, "🍕🚀", baseTime)
	add(t, factory, o)

	got, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.True(t, got.IsEqual(o))
	assert.Equal(t, "14.00", got.Total().String())

	// Mutating a returned copy must not leak into the store.
	require.NoError(t, got.ChangeStatus(order.Cancelled, baseTime.Add(time.Hour)))
	again, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Pending, again.Status())

	_, err = store.Get(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestStore_RejectsDuplicateID(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	o := newOrder(t, "☕", baseTime)
	add(t, factory, o)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	err := uow.OrderRepository().Add(ctx, o)
	require.ErrorIs(t, err, errs.ErrObjectAlreadyExists)
	require.NoError(t, uow.Rollback(ctx))
	assert.Equal(t, 1, store.Len())
}

func TestUnitOfWork_RollbackDiscardsStagedWrites(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, newOrder(t, "☕", baseTime)))
	require.NoError(t, uow.Rollback(ctx))
	assert.Equal(t, 0, store.Len())

	require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoActiveTransaction)
	require.ErrorIs(t, uow.Commit(ctx), memory.ErrNoActiveTransaction)
	_, err := uow.OrderRepository().Get(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, memory.ErrNoActiveTransaction)
}

func TestUnitOfWork_UpdateUnknownOrder(t *testing.T) {
	ctx := t.Context()
	uow := memory.NewUnitOfWorkFactory(memory.NewStore()).Create()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()

	err := uow.OrderRepository().Update(ctx, newOrder(t, "☕", baseTime))
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestStore_List(t *testing.T) {
	ctx := t.Context()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	oldest := newOrder(t, "☕", baseTime)
	tieFirst := newOrder(t, "🍕", baseTime.Add(time.Minute))
	tieSecond := newOrder(t, "🥗", baseTime.Add(time.Minute))
	newest := newOrder(t, "🍜", baseTime.Add(2*time.Minute))
	add(t, factory, oldest, tieFirst)
	add(t, factory, newest, tieSecond)

	cancelled := newest.Clone()
	require.NoError(t, cancelled.ChangeStatus(order.Cancelled, baseTime.Add(3*time.Minute)))
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Update(ctx, cancelled))
	require.NoError(t, uow.Commit(ctx))

	all, err := store.List(ctx, ports.OrderFilter{})
	require.NoError(t, err)
	ids := make([]kernel.UUID, 0, len(all))
	for _, o := range all {
		ids = append(ids, o.ID())
	}
	assert.Equal(t, []kernel.UUID{newest.ID(), tieSecond.ID(), tieFirst.ID(), oldest.ID()}, ids)

	limited, err := store.List(ctx, ports.OrderFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	pending, err := store.List(ctx, ports.OrderFilter{Status: order.Pending})
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	onlyCancelled, err := store.List(ctx, ports.OrderFilter{Status: order.Cancelled})
	require.NoError(t, err)
	require.Len(t, onlyCancelled, 1)
	assert.True(t, onlyCancelled[0].ID().IsEqual(newest.ID()))
}

func TestStore_ConcurrentTransitionsOnSameOrder(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := commands.NewUpdateOrderStatusCommandHandler(
		uowFactory{factory}, kernel.SystemClock{}, silentNotifier{}, logger,
	)

	o := newOrder(t, "🧋", baseTime)
	add(t, factory, o)

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	cmd, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Confirmed)
	require.NoError(t, err)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := handler.Handle(t.Context(), cmd)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, order.ErrInvalidTransition):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)

	got, err := store.Get(t.Context(), o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Confirmed, got.Status())
}

func TestStore_PaymentAndCancellationRace(t *testing.T) {
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := commands.NewUpdateOrderStatusCommandHandler(
		uowFactory{factory}, kernel.SystemClock{}, silentNotifier{}, logger,
	)

	for range 100 {
		o := newOrder(t, "🍣", baseTime)
		require.NoError(t, o.ChangeStatus(order.Confirmed, baseTime))
		add(t, factory, o)

		pay, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Paid)
		require.NoError(t, err)
		cancel, err := commands.NewUpdateOrderStatusCommand(o.ID(), order.Cancelled)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([]error, 2)
		for i, cmd := range []commands.UpdateOrderStatusCommand{pay, cancel} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = handler.Handle(t.Context(), cmd)
			}()
		}
		wg.Wait()

		got, err := store.Get(t.Context(), o.ID())
		require.NoError(t, err)

		// Cancel may legitimately follow a successful payment; pay never follows a cancel.
		switch got.Status() {
		case order.Cancelled:
			require.NoError(t, results[1])
			if results[0] == nil {
				continue
			}
			require.ErrorIs(t, results[0], order.ErrInvalidTransition)
		case order.Paid:
			require.NoError(t, results[0])
			require.ErrorIs(t, results[1], order.ErrInvalidTransition)
		default:
			t.Fatalf("unexpected status %s", got.Status())
		}
	}
}
