package ports

import (
	"context"

	"emojiorder/internal/core/domain/model/kernel"
)

// ChargeRequest asks the payment collaborator to bill an order.
type ChargeRequest struct {
	OrderID      kernel.UUID
	CustomerName string
	ItemCount    int
	Amount       kernel.Money
	Currency     string
	RedirectURL  string
}

// Charge is the collaborator's answer to a successful ChargeRequest.
type Charge struct {
	Reference  string
	PaymentURL string
	Demo       bool
}

// PaymentGateway creates payment charges. Confirmation arrives later and
// separately (webhook or ledger monitor).
type PaymentGateway interface {
	// CreateCharge returns a *CollaboratorError when the gateway cannot be
	// reached or rejects the request.
	CreateCharge(ctx context.Context, req ChargeRequest) (Charge, error)
}
