package services

import (
	"fmt"
	"strings"
	"time"

	"emojiorder/internal/core/domain/model/kernel"
	"emojiorder/internal/core/domain/model/order"
)

const displayTimeLayout = "2006-01-02 15:04:05"

// ItemSummary groups identical tokens on an order.
type ItemSummary struct {
	Token     string
	Name      string
	Quantity  int
	UnitPrice kernel.Money
	LineTotal kernel.Money
}

// ItemView is the API shape of an ItemSummary.
type ItemView struct {
	Token     string `json:"token"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// OrderView is the structured payload for an order.
type OrderView struct {
	ID               string     `json:"id"`
	CustomerName     string     `json:"customer_name,omitempty"`
	Status           string     `json:"status"`
	Items            []ItemView `json:"items"`
	Modifiers        []ItemView `json:"modifiers"`
	TotalAmount      string     `json:"total_amount"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	PaymentReference string     `json:"payment_reference,omitempty"`
	PaymentURL       string     `json:"payment_url,omitempty"`
	Summary          string     `json:"summary"`
}

// OrderFormatter renders orders. It never mutates them.
type OrderFormatter struct{}

func NewOrderFormatter() OrderFormatter {
	return OrderFormatter{}
}

// Summarize groups line items by token, keeping the order each token was
// first seen in.
func (OrderFormatter) Summarize(items []order.LineItem) []ItemSummary {
	summaries := make([]ItemSummary, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if i, ok := index[item.Token()]; ok {
			summaries[i].Quantity++
			summaries[i].LineTotal = summaries[i].UnitPrice.Times(summaries[i].Quantity)
			continue
		}
		index[item.Token()] = len(summaries)
		summaries = append(summaries, ItemSummary{
			Token:     item.Token(),
			Name:      item.Name(),
			Quantity:  1,
			UnitPrice: item.UnitPrice(),
			LineTotal: item.UnitPrice(),
		})
	}

	return summaries
}

// Render produces the multi-line text shown to customers and notifications.
func (f OrderFormatter) Render(o *order.Order) string {
	customer := o.CustomerName()
	if customer == "" {
		customer = "Guest"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Order #%s\n", o.ID())
	fmt.Fprintf(&b, "Customer: %s\n", customer)
	fmt.Fprintf(&b, "Created: %s\n", o.CreatedAt().Format(displayTimeLayout))
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(o.Status().String()))

	b.WriteString("\nItems:\n")
	writeSummaries(&b, f.Summarize(o.LineItems()))
	if modifiers := o.Modifiers(); len(modifiers) > 0 {
		b.WriteString("Modifiers:\n")
		writeSummaries(&b, f.Summarize(modifiers))
	}

	fmt.Fprintf(&b, "\nTotal: $%s\n", o.Total())
	fmt.Fprintf(&b, "Updated: %s", o.UpdatedAt().Format(displayTimeLayout))
	if ref := o.PaymentReference(); ref != "" {
		fmt.Fprintf(&b, "\nPayment: %s", ref)
		if url := o.PaymentURL(); url != "" {
			fmt.Fprintf(&b, " %s", url)
		}
	}

	return b.String()
}

// View builds the API payload, including the rendered summary.
func (f OrderFormatter) View(o *order.Order) OrderView {
	return OrderView{
		ID:               o.ID().String(),
		CustomerName:     o.CustomerName(),
		Status:           o.Status().String(),
		Items:            toItemViews(f.Summarize(o.LineItems())),
		Modifiers:        toItemViews(f.Summarize(o.Modifiers())),
		TotalAmount:      o.Total().String(),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
		PaymentReference: o.PaymentReference(),
		PaymentURL:       o.PaymentURL(),
		Summary:          f.Render(o),
	}
}

func writeSummaries(b *strings.Builder, summaries []ItemSummary) {
	for _, s := range summaries {
		fmt.Fprintf(b, "  %sx%d %s - $%s\n", s.Token, s.Quantity, s.Name, s.LineTotal)
	}
}

func toItemViews(summaries []ItemSummary) []ItemView {
	views := make([]ItemView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, ItemView{
			Token:     s.Token,
			Name:      s.Name,
			Quantity:  s.Quantity,
			UnitPrice: s.UnitPrice.String(),
			LineTotal: s.LineTotal.String(),
		})
	}
	return views
}
