package queries

import (
	"context"

	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
)

type ListOrdersQueryHandler struct {
	reader ports.OrderReader
}

func NewListOrdersQueryHandler(reader ports.OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.reader.List(ctx, ports.OrderFilter{
		Status: query.Status(),
		Limit:  query.Limit(),
	})
}
