package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-CC-Webhook-Signature"

var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifySignature checks signature against the HMAC-SHA256 of body keyed with
// secret, in constant time.
func VerifySignature(secret string, body []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	given, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || !hmac.Equal(expected, given) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign returns the signature VerifySignature accepts. Used by tests and tooling.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Event is a decoded webhook delivery.
type Event struct {
	Type     string
	ChargeID string
	OrderID  string
}

// Outcome maps the event type to a payment outcome name ("success", "failed")
// and reports false for events that settle nothing, such as charge:created.
func (e Event) Outcome() (string, bool) {
	switch e.Type {
	case "charge:confirmed", "charge:resolved":
		return "success", true
	case "charge:failed":
		return "failed", true
	default:
		return "", false
	}
}

type webhookBody struct {
	Event struct {
		Type string `json:"type"`
		Data struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		} `json:"data"`
	} `json:"event"`
}

func ParseEvent(body []byte) (Event, error) {
	var raw webhookBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return Event{}, fmt.Errorf("decode webhook: %w", err)
	}
	if raw.Event.Type == "" {
		return Event{}, errors.New("decode webhook: event type is missing")
	}

	return Event{
		Type:     raw.Event.Type,
		ChargeID: raw.Event.Data.ID,
		OrderID:  raw.Event.Data.Metadata["order_id"],
	}, nil
}
