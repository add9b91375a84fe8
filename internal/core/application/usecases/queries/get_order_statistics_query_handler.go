package queries

import (
	"context"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
)

type GetOrderStatisticsQueryHandler struct {
	reader ports.OrderReader
}

func NewGetOrderStatisticsQueryHandler(reader ports.OrderReader) GetOrderStatisticsQueryHandler {
	return GetOrderStatisticsQueryHandler{reader: reader}
}

func (h GetOrderStatisticsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderStatisticsQuery,
) (OrderStatistics, error) {
	if err := query.Validate(); err != nil {
		return OrderStatistics{}, err
	}

	orders, err := h.reader.List(ctx, ports.OrderFilter{})
	if err != nil {
		return OrderStatistics{}, err
	}

	stats := OrderStatistics{
		TotalOrders:    len(orders),
		CountsByStatus: make(map[order.Status]int, len(order.Statuses())),
		TotalRevenue:   kernel.Zero,
	}
	for _, s := range order.Statuses() {
		stats.CountsByStatus[s] = 0
	}

	for _, o := range orders {
		stats.CountsByStatus[o.Status()]++
		if o.Status() == order.Completed {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.Total())
		}
	}

	stats.AverageOrderValue = stats.TotalRevenue.DivideBy(max(1, stats.TotalOrders))
	return stats, nil
}
