// Package webhooks authenticates and parses Sendly webhook deliveries.
//
// Signatures are HMAC-SHA256 over the exact request body, rendered as
// "sha256=" followed by 64 lowercase hex characters. Always pass the raw body
// as received; re-encoding a decoded payload changes its bytes and breaks
// verification.
//
//	body, _ := io.ReadAll(r.Body)
//	event, err := webhooks.ParseEvent(string(body), r.Header.Get("X-Sendly-Signature"), secret)
//	if err != nil {
//	    http.Error(w, "invalid webhook", http.StatusUnauthorized)
//	    return
//	}
//
// All functions are pure and safe for concurrent use.
package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/sendly-live/sendly-go/internal/apierrors"
)

const (
	// SignaturePrefix tags the hash algorithm in a rendered signature.
	SignaturePrefix = "sha256="

	// DefaultAPIVersion is assumed when a payload carries no api_version.
	DefaultAPIVersion = "2024-01-01"
)

// ErrSignatureInvalid is matched by every error returned from ParseEvent.
var ErrSignatureInvalid = apierrors.ErrSignatureInvalid

// EventType identifies what happened to a message.
type EventType string

const (
	EventMessageQueued      EventType = "message.queued"
	EventMessageSent        EventType = "message.sent"
	EventMessageDelivered   EventType = "message.delivered"
	EventMessageFailed      EventType = "message.failed"
	EventMessageUndelivered EventType = "message.undelivered"
)

// Event is a verified webhook delivery.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	Data       MessageData `json:"data"`
	CreatedAt  string      `json:"created_at"`
	APIVersion string      `json:"api_version"`
}

// MessageData describes the message an event refers to. Timestamps are
// RFC 3339 strings as sent by the API.
type MessageData struct {
	MessageID   string `json:"message_id"`
	Status      string `json:"status"`
	To          string `json:"to"`
	From        string `json:"from"`
	Error       string `json:"error,omitempty"`
	ErrorCode   string `json:"error_code,omitempty"`
	DeliveredAt string `json:"delivered_at,omitempty"`
	FailedAt    string `json:"failed_at,omitempty"`
	Segments    int    `json:"segments"`
	CreditsUsed int    `json:"credits_used"`
}

// Sign returns the signature for payload under secret.
func Sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(payload))
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature authenticates payload under secret.
// Empty inputs are rejected without hashing. The comparison is exact,
// case-sensitive and constant-time.
func Verify(payload, signature, secret string) bool {
	if payload == "" || signature == "" || secret == "" {
		return false
	}
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ParseEvent verifies payload and decodes it into an Event. Any failure,
// whether a bad signature, malformed JSON or a missing id, type or
// created_at, is returned as a signature error. Wrapped JSON errors remain
// reachable through errors.As.
func ParseEvent(payload, signature, secret string) (*Event, error) {
	if !Verify(payload, signature, secret) {
		return nil, apierrors.Signature("Invalid webhook signature", nil)
	}

	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return nil, apierrors.Signature("Failed to parse webhook payload: "+err.Error(), err)
	}

	switch {
	case event.ID == "":
		return nil, missingField("id")
	case event.Type == "":
		return nil, missingField("type")
	case event.CreatedAt == "":
		return nil, missingField("created_at")
	}

	if event.APIVersion == "" {
		event.APIVersion = DefaultAPIVersion
	}
	return &event, nil
}

func missingField(name string) error {
	return apierrors.Signature("Invalid webhook payload: missing required field "+name, nil)
}
