package queries

import (
	"errors"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/pkg/guard"
)

var ErrGetOrderStatisticsQueryIsNotConstructed = errors.New(
	"GetOrderStatisticsQuery must be created via NewGetOrderStatisticsQuery constructor",
)

type GetOrderStatisticsQuery struct {
	guard guard.ConstructorGuard
}

func NewGetOrderStatisticsQuery() GetOrderStatisticsQuery {
	return GetOrderStatisticsQuery{guard: guard.NewConstructorGuard()}
}

func (q GetOrderStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderStatisticsQueryIsNotConstructed)
}

// OrderStatistics aggregates the whole order history.
//
// Revenue counts COMPLETED orders only, while AverageOrderValue divides it by
// every order ever placed (at least one), so cancelled and in-flight orders
// pull the average down.
type OrderStatistics struct {
	TotalOrders       int
	CountsByStatus    map[order.Status]int
	TotalRevenue      kernel.Money
	AverageOrderValue kernel.Money
}
