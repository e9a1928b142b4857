package dto

// AmountRequest is the body of the test payment endpoints
type AmountRequest struct {
	Amount float64 `json:"amount" example:"25"`
}

// CreatePaymentIntentRequest is the body for POST /payments/create-payment-intent
type CreatePaymentIntentRequest struct {
	Amount    float64 `json:"amount" example:"25"`
	StudentID string  `json:"studentId"`
}

// ProcessPaymentRequest is the body for POST /payments/process-payment
type ProcessPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" example:"pi_3Nx..."`
}

// CreateCheckoutSessionRequest is the body for POST /payments/create-checkout-session
type CreateCheckoutSessionRequest struct {
	StudentID string  `json:"studentId"`
	Amount    float64 `json:"amount" example:"25"`
}

// TestWebhookRequest simulates a Stripe event without Stripe
type TestWebhookRequest struct {
	Type      string  `json:"type" example:"payment_intent.succeeded"`
	SponsorID string  `json:"sponsorId"`
	StudentID string  `json:"studentId"`
	Amount    float64 `json:"amount" example:"25"`
}

func (r TestWebhookRequest) MissingFields() bool {
	return blank(r.Type, r.SponsorID, r.StudentID) || r.Amount == 0
}

// PaymentIntentResponse carries what the client needs to confirm a card payment
type PaymentIntentResponse struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

// CheckoutSessionResponse points the client at the hosted checkout page
type CheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// PaymentResult describes a reconciled payment
type PaymentResult struct {
	SponsorID  string  `json:"sponsorId"`
	StudentID  string  `json:"studentId"`
	Amount     float64 `json:"amount"`
	PaymentID  string  `json:"paymentId"`
	DonationID string  `json:"donationId,omitempty"`
	Duplicate  bool    `json:"duplicate,omitempty"`
}

// WebhookAck is returned to the payment provider
type WebhookAck struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	EventID   string `json:"eventId,omitempty"`
	PaymentID string `json:"paymentId,omitempty"`
}
