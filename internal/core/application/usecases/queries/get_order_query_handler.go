package queries

import (
	"context"

	"emojiorder/internal/core/domain/model/order"
	"emojiorder/internal/core/ports"
)

type GetOrderQueryHandler struct {
	reader ports.OrderReader
}

func NewGetOrderQueryHandler(reader ports.OrderReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader}
}

// Handle returns an error wrapping errs.ErrObjectNotFound for unknown ids.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.reader.Get(ctx, query.OrderID())
}
