package ports

import "context"

// Notifier pushes order events to a home-automation or messaging system.
// Delivery is best-effort: implementations report false and log instead of
// returning errors, and callers never fail an order because of it.
type Notifier interface {
	Notify(ctx context.Context, title, message string) bool
	TriggerOrderAction(ctx context.Context, orderID string, payload map[string]any) bool
}
