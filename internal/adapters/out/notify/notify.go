// Package notify delivers order events to Home Assistant. When no Home
// Assistant instance is configured events are only logged.
package notify

import (
	"context"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"emojiorder/internal/adapters/out/httpclient"
	"emojiorder/internal/core/ports"
)

// OrderAutomation is the automation triggered for order events.
const OrderAutomation = "automation.emoji_order_received"

var (
	_ ports.Notifier = (*HomeAssistant)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
)

// LogNotifier records events in the log and always reports delivery.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "log_notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, title, message string) bool {
	n.logger.InfoContext(ctx, "notification", "title", title, "message", message)
	return true
}

func (n *LogNotifier) TriggerOrderAction(ctx context.Context, orderID string, payload map[string]any) bool {
	n.logger.InfoContext(ctx, "order action", "order_id", orderID, "payload", payload)
	return true
}

// HomeAssistant calls the Home Assistant REST API with a long-lived token.
// Failures are logged and reported as not delivered.
type HomeAssistant struct {
	baseURL string
	token   string
	client  *httpclient.Client
	logger  *slog.Logger
}

func NewHomeAssistant(baseURL, token string, client *httpclient.Client, logger *slog.Logger) *HomeAssistant {
	return &HomeAssistant{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
		logger:  logger.With("component", "home_assistant"),
	}
}

func (h *HomeAssistant) Notify(ctx context.Context, title, message string) bool {
	return h.post(ctx, "/api/services/notify/notify", map[string]any{
		"title":   title,
		"message": message,
	})
}

func (h *HomeAssistant) TriggerOrderAction(ctx context.Context, orderID string, payload map[string]any) bool {
	variables := make(map[string]any, len(payload)+1)
	maps.Copy(variables, payload)
	variables["order_id"] = orderID

	return h.post(ctx, "/api/services/automation/trigger", map[string]any{
		"entity_id": OrderAutomation,
		"variables": variables,
	})
}

func (h *HomeAssistant) post(ctx context.Context, path string, body map[string]any) bool {
	headers := http.Header{"Authorization": {"Bearer " + h.token}}

	status, raw, err := h.client.PostJSON(ctx, h.baseURL+path, headers, body)
	if err != nil {
		h.logger.ErrorContext(ctx, "home assistant call failed", "path", path, "error", err)
		return false
	}
	if status != http.StatusOK {
		h.logger.ErrorContext(ctx, "home assistant call rejected",
			"path", path, "error", h.client.StatusError(status, raw))
		return false
	}

	return true
}
