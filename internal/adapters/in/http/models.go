package http

import (
	"emojiorder/internal/core/domain/services"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type MenuItem struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Kind  string `json:"kind"`
}

type ResolveRequest struct {
	Emoji string `json:"emoji"`
}

type ResolvedOrder struct {
	Items       []MenuItem `json:"items"`
	Modifiers   []MenuItem `json:"modifiers"`
	TotalAmount string     `json:"total_amount"`
}

type NewOrder struct {
	Emoji        string  `json:"emoji"`
	CustomerName *string `json:"customer_name,omitempty"`
	Checkout     *bool   `json:"checkout,omitempty"`
	Currency     *string `json:"currency,omitempty"`
	RedirectURL  *string `json:"redirect_url,omitempty"`
}

// Order is the formatted order view.
type Order = services.OrderView

type Payment struct {
	Reference  string `json:"reference,omitempty"`
	PaymentURL string `json:"payment_url,omitempty"`
	Demo       bool   `json:"demo"`
	Error      string `json:"error,omitempty"`
}

type OrderWithPayment struct {
	Order   Order    `json:"order"`
	Payment *Payment `json:"payment,omitempty"`
}

type StatusUpdate struct {
	Status string `json:"status"`
}

type PaymentReference struct {
	Reference  string  `json:"reference"`
	PaymentURL *string `json:"payment_url,omitempty"`
}

type CheckoutRequest struct {
	Currency    *string `json:"currency,omitempty"`
	RedirectURL *string `json:"redirect_url,omitempty"`
}

type TransactionRequest struct {
	TxHash string `json:"tx_hash"`
}

type Monitoring struct {
	Status  string             `json:"status"`
	OrderID openapi_types.UUID `json:"order_id"`
	TxHash  string             `json:"tx_hash"`
}

type Statistics struct {
	TotalOrders       int            `json:"total_orders"`
	CountsByStatus    map[string]int `json:"counts_by_status"`
	TotalRevenue      string         `json:"total_revenue"`
	AverageOrderValue string         `json:"average_order_value"`
}

type WebhookResult struct {
	Received bool   `json:"received"`
	OrderID  string `json:"order_id,omitempty"`
	Outcome  string `json:"outcome,omitempty"`
}

// ListOrdersParams are the query parameters of GET /api/v1/orders.
type ListOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Limit  *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
