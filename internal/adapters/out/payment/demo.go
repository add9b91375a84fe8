// Package payment implements ports.PaymentGateway: a demo gateway that issues
// mock charges, and a hosted-commerce gateway that talks to a Coinbase
// Commerce compatible API. It also verifies and decodes payment webhooks.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"emojiorder/internal/core/ports"

	"github.com/google/uuid"
)

const demoPaymentBaseURL = "https://demo-payment.example.com/charges/"

var _ ports.PaymentGateway = (*DemoGateway)(nil)

// DemoGateway is used when no payment API key is configured. Charges are
// never settled; confirm them by posting a payment outcome.
type DemoGateway struct {
	logger *slog.Logger
}

func NewDemoGateway(logger *slog.Logger) *DemoGateway {
	return &DemoGateway{logger: logger.With("component", "demo_payment_gateway")}
}

func (g *DemoGateway) CreateCharge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	if err := ctx.Err(); err != nil {
		return ports.Charge{}, ports.NewCollaboratorUnavailableError("demo payments", err)
	}

	reference := "demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	g.logger.InfoContext(ctx, "demo charge created",
		"order_id", req.OrderID.String(), "reference", reference, "amount", req.Amount.String())

	return ports.Charge{
		Reference:  reference,
		PaymentURL: fmt.Sprintf("%s%s", demoPaymentBaseURL, reference),
		Demo:       true,
	}, nil
}
