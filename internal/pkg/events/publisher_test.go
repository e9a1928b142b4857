package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	subject string
	data    []byte
	err     error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	c.subject, c.data = subject, data
	return c.err
}

func TestNatsPublisher_PublishDonationRecorded(t *testing.T) {
	conn := &recordingConn{}
	p := &NatsPublisher{conn: conn, subject: "donations.recorded"}

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	err := p.PublishDonationRecorded(context.Background(), DonationRecorded{
		DonationID: "d-1",
		SponsorID:  "s-1",
		Amount:     25,
		RecordedAt: at,
	})
	require.NoError(t, err)
	assert.Equal(t, "donations.recorded", conn.subject)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(conn.data, &got))
	assert.Equal(t, EventDonationRecorded, got["event_type"])
	assert.Equal(t, "d-1", got["donation_id"])
	assert.Equal(t, 25.0, got["amount"])
	assert.NotContains(t, got, "payment_reference")
}

func TestNatsPublisher_Errors(t *testing.T) {
	p := &NatsPublisher{conn: &recordingConn{err: errors.New("no responders")}, subject: "x"}
	assert.ErrorContains(t, p.PublishDonationRecorded(context.Background(), DonationRecorded{}), "no responders")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishDonationRecorded(ctx, DonationRecorded{}), context.Canceled)

	p.Close()
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishDonationRecorded(context.Background(), DonationRecorded{}))
	p.Close()
}
