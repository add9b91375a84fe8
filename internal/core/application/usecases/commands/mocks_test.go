package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"emojiorder/internal/core/application/usecases/commands"
	"emojiorder/internal/core/domain/model/catalog"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/domain/services"
	"emojiorder/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	createdAt = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	fixedNow  = kernel.ClockFunc(func() time.Time { return createdAt.Add(time.Minute) })
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resolve(t *testing.T, input string) services.ResolvedOrder {
	t.Helper()
	resolved, err := services.NewOrderResolver(catalog.Default()).Resolve(input)
	require.NoError(t, err)
	return resolved
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	resolved := resolve(t, "☕🥐🚀")
	o, err := order.NewOrder(kernel.NewUUID(), "Ada", resolved.LineItems(), resolved.ModifierLineItems(), createdAt)
	require.NoError(t, err)
	return o
}

func orderInStatus(t *testing.T, path ...order.Status) *order.Order {
	t.Helper()
	o := newPendingOrder(t)
	for _, s := range path {
		require.NoError(t, o.ChangeStatus(s, createdAt))
	}
	return o
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderReader) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, title, message string) bool {
	args := m.Called(ctx, title, message)
	return args.Bool(0)
}

func (m *MockNotifier) TriggerOrderAction(ctx context.Context, orderID string, payload map[string]any) bool {
	args := m.Called(ctx, orderID, payload)
	return args.Bool(0)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) CreateCharge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.Charge), args.Error(1)
}
