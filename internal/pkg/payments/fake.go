package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// FakeGateway is an in-memory Gateway for tests
type FakeGateway struct {
	mu sync.Mutex

	Intents  map[string]*Intent
	Sessions map[string]*Session
	Secret   string
	Err      error

	LastIntent  IntentParams
	LastSession SessionParams

	seq int
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		Intents:  make(map[string]*Intent),
		Sessions: make(map[string]*Session),
	}
}

func (f *FakeGateway) CreatePaymentIntent(_ context.Context, p IntentParams) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.seq++
	f.LastIntent = p
	id := fmt.Sprintf("pi_fake_%d", f.seq)
	in := &Intent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method", Amount: p.Amount, Metadata: p.Metadata}
	f.Intents[id] = in
	return in, nil
}

func (f *FakeGateway) GetPaymentIntent(_ context.Context, id string) (*Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.Intents[id]
	if !ok {
		return nil, fmt.Errorf("no such payment intent: %s", id)
	}
	return in, nil
}

func (f *FakeGateway) CreateCheckoutSession(_ context.Context, p SessionParams) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.seq++
	f.LastSession = p
	id := fmt.Sprintf("cs_fake_%d", f.seq)
	s := &Session{ID: id, URL: "https://checkout.example.test/" + id, PaymentStatus: "unpaid", AmountTotal: p.Amount, Metadata: p.Metadata}
	f.Sessions[id] = s
	return s, nil
}

func (f *FakeGateway) GetCheckoutSession(_ context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.Sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such checkout session: %s", id)
	}
	return s, nil
}

// VerifyEvent accepts the payload only when signature equals Secret
func (f *FakeGateway) VerifyEvent(payload []byte, signature string) (*Event, error) {
	if signature != f.Secret {
		return nil, ErrInvalidSignature
	}
	return f.ParseEvent(payload)
}

func (f *FakeGateway) ParseEvent(payload []byte) (*Event, error) {
	var wire struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object json.RawMessage `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, err
	}
	return &Event{ID: wire.ID, Type: wire.Type, Raw: wire.Data.Object}, nil
}

func (f *FakeGateway) HasWebhookSecret() bool {
	return f.Secret != ""
}
