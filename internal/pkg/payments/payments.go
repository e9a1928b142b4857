package payments

import (
	"context"
	"encoding/json"
	"errors"
	"math"
)

// Stripe event types handled by the webhook
const (
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
	EventPaymentIntentFailed      = "payment_intent.payment_failed"
	EventCheckoutSessionCompleted = "checkout.session.completed"
)

const (
	IntentStatusSucceeded = "succeeded"
	SessionStatusPaid     = "paid"
	PaymentMethodCard     = "card"
)

var ErrInvalidSignature = errors.New("webhook signature verification failed")

// Intent is the subset of a PaymentIntent the service works with
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Metadata     map[string]string
}

// Session is the subset of a Checkout Session the service works with
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	AmountTotal   int64
	Metadata      map[string]string
}

// Event is a webhook event with its data object left undecoded
type Event struct {
	ID   string
	Type string
	Raw  json.RawMessage
}

type IntentParams struct {
	Amount   int64
	Metadata map[string]string
}

type SessionParams struct {
	Amount      int64
	ProductName string
	Description string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

// Gateway is the payment provider as seen by the payment service
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, params IntentParams) (*Intent, error)
	GetPaymentIntent(ctx context.Context, id string) (*Intent, error)
	CreateCheckoutSession(ctx context.Context, params SessionParams) (*Session, error)
	GetCheckoutSession(ctx context.Context, id string) (*Session, error)

	// VerifyEvent checks the signature header against the webhook secret
	VerifyEvent(payload []byte, signature string) (*Event, error)
	// ParseEvent decodes an event without any signature check
	ParseEvent(payload []byte) (*Event, error)
	HasWebhookSecret() bool
}

// ToCents converts a major-unit amount to the smallest currency unit
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromCents(cents int64) float64 {
	return float64(cents) / 100
}
