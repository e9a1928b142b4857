package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/yigit/edusponsor/internal/pkg/logger"
)

const EventDonationRecorded = "donation.recorded"

// DonationRecorded is published after a donation row is committed
type DonationRecorded struct {
	EventType        string    `json:"event_type"`
	DonationID       string    `json:"donation_id"`
	SponsorshipID    string    `json:"sponsorship_id"`
	SponsorID        string    `json:"sponsor_id"`
	StudentID        string    `json:"student_id"`
	Amount           float64   `json:"amount"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// Publisher fans domain events out to other services
type Publisher interface {
	PublishDonationRecorded(ctx context.Context, event DonationRecorded) error
	Close()
}

type natsConn interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher publishes JSON encoded events on a NATS subject
type NatsPublisher struct {
	conn    natsConn
	close   func()
	subject string
}

// NewNatsPublisher connects to natsURL
func NewNatsPublisher(natsURL, subject string) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL,
		nats.Name("edusponsor-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NatsPublisher{conn: nc, close: nc.Close, subject: subject}, nil
}

func (p *NatsPublisher) PublishDonationRecorded(ctx context.Context, event DonationRecorded) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if event.EventType == "" {
		event.EventType = EventDonationRecorded
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshalling event: %w", err)
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("error publishing to NATS: %w", err)
	}

	logger.Debug().Str("subject", p.subject).Str("donationID", event.DonationID).Msg("Published event to NATS")
	return nil
}

func (p *NatsPublisher) Close() {
	if p.close != nil {
		p.close()
	}
}

// NoopPublisher drops every event. Used when NATS_URL is not set.
type NoopPublisher struct{}

func (NoopPublisher) PublishDonationRecorded(context.Context, DonationRecorded) error { return nil }

func (NoopPublisher) Close() {}
