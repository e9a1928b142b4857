package email

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := string(BuildMessage("EduSponsor <no-reply@edusponsor.app>", "jane@example.org", "Thank you", "<p>hi</p>"))

	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
	assert.Contains(t, msg, "Subject: Thank you\r\n")
	assert.Contains(t, msg, "To: jane@example.org\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8\r\n")
}

func TestSMTPSender_LogsWhenNotConfigured(t *testing.T) {
	var buf bytes.Buffer
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.org"}, zerolog.New(&buf))

	require.NoError(t, s.Send(context.Background(), "jane@example.org", "Receipt", "<p>x</p>"))
	assert.Contains(t, buf.String(), "email not sent")
}

func TestSMTPSender_Sends(t *testing.T) {
	cfg := SMTPConfig{Host: "smtp.example.org", Port: 587, Username: "u", Password: "p", FromName: "EduSponsor", FromEmail: "no-reply@edusponsor.app"}
	s := NewSMTPSender(cfg, zerolog.Nop()).(*smtpSender)

	var gotAddr, gotFrom string
	var gotTo []string
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo = addr, from, to
		return nil
	}

	require.NoError(t, s.Send(context.Background(), "jane@example.org", "Receipt", "<p>x</p>"))
	assert.Equal(t, "smtp.example.org:587", gotAddr)
	assert.Equal(t, "no-reply@edusponsor.app", gotFrom)
	assert.Equal(t, []string{"jane@example.org"}, gotTo)

	s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
	assert.ErrorContains(t, s.Send(context.Background(), "jane@example.org", "Receipt", "x"), "refused")
}
