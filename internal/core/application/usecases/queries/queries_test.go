package queries_test

import (
	"testing"
	"time"

	"emojiorder/internal/adapters/out/memory"
	"emojiorder/internal/core/application/usecases/queries"
	"emojiorder/internal/core/domain/model/catalog"
	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type QueriesTestSuite struct {
	suite.Suite
	store   *memory.Store
	factory *memory.UnitOfWorkFactory
	now     time.Time
}

func (s *QueriesTestSuite) SetupTest() {
	s.store = memory.NewStore()
	s.factory = memory.NewUnitOfWorkFactory(s.store)
	s.now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
}

// seed stores an order priced at the given catalog tokens and walks it along path.
func (s *QueriesTestSuite) seed(tokens []string, path ...order.Status) *order.Order {
	menu := catalog.Default()
	items := make([]order.LineItem, 0, len(tokens))
	for _, token := range tokens {
		entry, ok := menu.Lookup(token)
		s.Require().True(ok, token)
		items = append(items, order.NewLineItem(entry))
	}

	s.now = s.now.Add(time.Second)
	o, err := order.NewOrder(kernel.NewUUID(), "Ada", items, nil, s.now)
	s.Require().NoError(err)
	for _, status := range path {
		s.Require().NoError(o.ChangeStatus(status, s.now))
	}

	ctx := s.T().Context()
	uow := s.factory.Create()
	s.Require().NoError(uow.Begin(ctx))
	s.Require().NoError(uow.OrderRepository().Add(ctx, o))
	s.Require().NoError(uow.Commit(ctx))
	return o
}

func (s *QueriesTestSuite) TestGetOrder() {
	ctx := s.T().Context()
	o := s.seed([]string{"🍕"})
	handler := queries.NewGetOrderQueryHandler(s.store)

	query, err := queries.NewGetOrderQuery(o.ID())
	s.Require().NoError(err)
	got, err := handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.True(got.IsEqual(o))

	missing, err := queries.NewGetOrderQuery(kernel.NewUUID())
	s.Require().NoError(err)
	_, err = handler.Handle(ctx, missing)
	s.Require().ErrorIs(err, errs.ErrObjectNotFound)

	_, err = handler.Handle(ctx, queries.GetOrderQuery{})
	s.Require().ErrorIs(err, queries.ErrGetOrderQueryIsNotConstructed)
}

func (s *QueriesTestSuite) TestListOrders() {
	ctx := s.T().Context()
	first := s.seed([]string{"☕"})
	second := s.seed([]string{"🥐"}, order.Cancelled)
	third := s.seed([]string{"🍰"})
	handler := queries.NewListOrdersQueryHandler(s.store)

	query, err := queries.NewListOrdersQuery(order.Unknown, queries.DefaultListLimit)
	s.Require().NoError(err)
	all, err := handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.True(all[0].ID().IsEqual(third.ID()))
	s.True(all[1].ID().IsEqual(second.ID()))
	s.True(all[2].ID().IsEqual(first.ID()))

	query, err = queries.NewListOrdersQuery(order.Pending, 1)
	s.Require().NoError(err)
	pending, err := handler.Handle(ctx, query)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.True(pending[0].ID().IsEqual(third.ID()))
}

func (s *QueriesTestSuite) TestStatistics() {
	ctx := s.T().Context()
	s.seed([]string{"🍕"})
	s.seed([]string{"☕", "☕☕", "🍪"}, order.Cancelled) // 3.50 + 5.00 + 2.00
	s.seed([]string{"🍕", "🍪"}, order.Confirmed, order.Paid, order.Preparing, order.Ready, order.Completed)

	stats, err := queries.NewGetOrderStatisticsQueryHandler(s.store).Handle(ctx, queries.NewGetOrderStatisticsQuery())
	s.Require().NoError(err)

	s.Equal(3, stats.TotalOrders)
	s.Equal(1, stats.CountsByStatus[order.Pending])
	s.Equal(1, stats.CountsByStatus[order.Cancelled])
	s.Equal(1, stats.CountsByStatus[order.Completed])
	s.Equal(0, stats.CountsByStatus[order.Paid])
	s.Equal("14.00", stats.TotalRevenue.String())
	s.Equal("4.67", stats.AverageOrderValue.String())
}

func (s *QueriesTestSuite) TestStatisticsOnEmptyStore() {
	stats, err := queries.NewGetOrderStatisticsQueryHandler(s.store).Handle(
		s.T().Context(), queries.NewGetOrderStatisticsQuery(),
	)
	s.Require().NoError(err)
	s.Equal(0, stats.TotalOrders)
	s.True(stats.TotalRevenue.IsZero())
	s.True(stats.AverageOrderValue.IsZero())
	s.Len(stats.CountsByStatus, len(order.Statuses()))
}

func TestQueriesTestSuite(t *testing.T) {
	suite.Run(t, new(QueriesTestSuite))
}

func TestNewListOrdersQuery_Validation(t *testing.T) {
	_, err := queries.NewListOrdersQuery(order.Unknown, 0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = queries.NewListOrdersQuery(order.Unknown, 101)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = queries.NewListOrdersQuery(order.Status(42), 10)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	query, err := queries.NewListOrdersQuery(order.Ready, 100)
	require.NoError(t, err)
	assert.Equal(t, order.Ready, query.Status())
	assert.Equal(t, 100, query.Limit())
}
