package order

import (
	"emojiorder/internal/core/domain/model/catalog"
	"emojiorder/internal/core/domain/model/kernel"
)

// LineItem is one resolved unit on an order. Its price is copied from the
// catalog when the order is created and never looked up again.
type LineItem struct {
	token     string
	name      string
	unitPrice kernel.Money
}

// NewLineItem freezes a catalog entry into a line item.
func NewLineItem(entry catalog.Entry) LineItem {
	return LineItem{
		token:     entry.Token(),
		name:      entry.Name(),
		unitPrice: entry.Price(),
	}
}

// RestoreLineItem rebuilds a line item from persisted fields.
func RestoreLineItem(token, name string, unitPrice kernel.Money) LineItem {
	return LineItem{
		token:     token,
		name:      name,
		unitPrice: unitPrice,
	}
}

func (l LineItem) Token() string {
	return l.token
}

func (l LineItem) Name() string {
	return l.name
}

func (l LineItem) UnitPrice() kernel.Money {
	return l.unitPrice
}
