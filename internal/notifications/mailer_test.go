package notifications

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"circustix/internal/shared/config"
	"circustix/pkg/logger"
)

func TestBuildConfirmation(t *testing.T) {
	order := confirmedOrder()

	msg, err := buildConfirmation("Big Top Box Office", "tickets@example.com", order, []byte("%PDF-1.3 fake"))
	require.NoError(t, err)

	assert.Equal(t, []string{`"Ana Lopez" <ana@example.com>`}, msg.GetToString())
	assert.Equal(t, []string{"Your tickets for Garden Bros Circus - Order #GBC-1730000000000-ABC123"}, msg.GetGenHeader(mail.HeaderSubject))

	attachments := msg.GetAttachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, "ticket-GBC-1730000000000-ABC123.pdf", attachments[0].Name)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "text/html")
}

func TestBuildConfirmationWithoutTicket(t *testing.T) {
	msg, err := buildConfirmation("", "tickets@example.com", confirmedOrder(), nil)
	require.NoError(t, err)
	assert.Empty(t, msg.GetAttachments())

	order := confirmedOrder()
	order.Customer.Email = ""
	_, err = buildConfirmation("", "tickets@example.com", order, nil)
	assert.Error(t, err)
}

func TestConfirmationText(t *testing.T) {
	text := confirmationText(confirmedOrder())
	assert.Contains(t, text, "Bottom Center - Row A - Seat 1 (Adult)  $68.07")
	assert.Contains(t, text, "Total paid: $142.95")
}

func TestNewSMTPMailerValidatesConfig(t *testing.T) {
	_, err := NewSMTPMailer(config.EmailConfig{FromEmail: "tickets@example.com"})
	assert.Error(t, err)

	_, err = NewSMTPMailer(config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587})
	assert.Error(t, err)

	m, err := NewSMTPMailer(config.EmailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587, FromEmail: "tickets@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(logger.NewWithWriter(&buf, "info"))
	require.NoError(t, m.SendConfirmation(context.Background(), confirmedOrder(), []byte("pdf")))
	assert.Contains(t, buf.String(), "ana@example.com")
}
