// Package orderrepo maps order aggregates to the "orders" table.
//
// Line items and modifiers are stored as jsonb arrays on the order row, since
// they are frozen at creation and always loaded with the order.
package orderrepo

import (
	"time"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the row shape of an order. Seq records insertion order and
// breaks ties between orders created at the same instant.
type OrderDTO struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Seq              int64           `gorm:"autoIncrement;not null"`
	CustomerName     string          `gorm:"size:200"`
	LineItems        []LineItemDTO   `gorm:"serializer:json;type:jsonb;not null"`
	Modifiers        []LineItemDTO   `gorm:"serializer:json;type:jsonb;not null"`
	Total            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status           string          `gorm:"size:16;index;not null"`
	CreatedAt        time.Time       `gorm:"autoCreateTime:false;index;not null"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime:false;not null"`
	PaymentReference string          `gorm:"size:200"`
	PaymentURL       string
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one element of the line_items and modifiers json arrays.
type LineItemDTO struct {
	Token     string          `json:"token"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()
	return OrderDTO{
		ID:               s.ID.Bytes(),
		CustomerName:     s.CustomerName,
		LineItems:        lineItemsFromDomain(s.LineItems),
		Modifiers:        lineItemsFromDomain(s.Modifiers),
		Total:            s.Total.Decimal(),
		Status:           s.Status.String(),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		PaymentReference: s.PaymentReference,
		PaymentURL:       s.PaymentURL,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.Total)
	if err != nil {
		return nil, err
	}

	items, err := lineItemsToDomain(dto.LineItems)
	if err != nil {
		return nil, err
	}

	modifiers, err := lineItemsToDomain(dto.Modifiers)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(order.Snapshot{
		ID:               id,
		CustomerName:     dto.CustomerName,
		LineItems:        items,
		Modifiers:        modifiers,
		Total:            total,
		Status:           status,
		CreatedAt:        dto.CreatedAt.UTC(),
		UpdatedAt:        dto.UpdatedAt.UTC(),
		PaymentReference: dto.PaymentReference,
		PaymentURL:       dto.PaymentURL,
	})
}

func lineItemsFromDomain(items []order.LineItem) []LineItemDTO {
	dtos := make([]LineItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, LineItemDTO{
			Token:     item.Token(),
			Name:      item.Name(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}
	return dtos
}

func lineItemsToDomain(dtos []LineItemDTO) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(dtos))
	for _, dto := range dtos {
		price, err := kernel.NewMoney(dto.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, order.RestoreLineItem(dto.Token, dto.Name, price))
	}
	return items, nil
}
