package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"emojiorder/internal/adapters/out/httpclient"
	"emojiorder/internal/core/ports"
)

const (
	DefaultCommerceURL = "https://api.commerce.coinbase.com"
	commerceAPIVersion = "2018-03-22"
)

var _ ports.PaymentGateway = (*CommerceGateway)(nil)

// NewChargeClient builds the HTTP client for charge creation. A charge POST is
// not idempotent, so it is retried only when the connection never opened.
func NewChargeClient(opts httpclient.Options) *httpclient.Client {
	opts.CheckRetry = httpclient.RetryOnDialErrors
	return httpclient.New("payments", opts)
}

// CommerceGateway creates fixed-price hosted charges.
type CommerceGateway struct {
	baseURL string
	apiKey  string
	client  *httpclient.Client
}

func NewCommerceGateway(baseURL, apiKey string, client *httpclient.Client) *CommerceGateway {
	if baseURL == "" {
		baseURL = DefaultCommerceURL
	}
	return &CommerceGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type createChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	LocalPrice  money             `json:"local_price"`
	PricingType string            `json:"pricing_type"`
	Metadata    map[string]string `json:"metadata"`
	RedirectURL string            `json:"redirect_url,omitempty"`
}

type createChargeResponse struct {
	Data struct {
		ID        string `json:"id"`
		Code      string `json:"code"`
		HostedURL string `json:"hosted_url"`
	} `json:"data"`
}

func (g *CommerceGateway) CreateCharge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	customer := req.CustomerName
	if customer == "" {
		customer = "Guest"
	}

	body := createChargeRequest{
		Name:        fmt.Sprintf("Order #%s", req.OrderID),
		Description: fmt.Sprintf("Payment for order with %d items", req.ItemCount),
		LocalPrice:  money{Amount: req.Amount.String(), Currency: req.Currency},
		PricingType: "fixed_price",
		Metadata: map[string]string{
			"order_id":      req.OrderID.String(),
			"customer_name": customer,
		},
		RedirectURL: req.RedirectURL,
	}
	headers := http.Header{
		"X-CC-Api-Key": {g.apiKey},
		"X-CC-Version": {commerceAPIVersion},
	}

	status, raw, err := g.client.PostJSON(ctx, g.baseURL+"/charges", headers, body)
	if err != nil {
		return ports.Charge{}, err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return ports.Charge{}, g.client.StatusError(status, raw)
	}

	var resp createChargeResponse
	if err = json.Unmarshal(raw, &resp); err != nil {
		return ports.Charge{}, ports.NewCollaboratorUnavailableError(g.client.Name(), fmt.Errorf("decode charge: %w", err))
	}
	if resp.Data.ID == "" {
		return ports.Charge{}, ports.NewCollaboratorUnavailableError(g.client.Name(), fmt.Errorf("charge without id"))
	}

	return ports.Charge{Reference: resp.Data.ID, PaymentURL: resp.Data.HostedURL}, nil
}
