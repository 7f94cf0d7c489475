package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"circustix/internal/reservations"
	"circustix/internal/shared/config"
	"circustix/pkg/logger"
)

// Mailer delivers the order confirmation to the buyer
type Mailer interface {
	SendConfirmation(ctx context.Context, order *reservations.Order, ticketPDF []byte) error
}

const typePDF mail.ContentType = "application/pdf"

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
}).Parse(`<html><body style="font-family: Arial, sans-serif;">
<h2>Your tickets are confirmed!</h2>
<p>Hi {{.Customer.Name}},</p>
<p>Thank you for your order <strong>#{{.ID}}</strong> for <strong>{{.ShowTitle}}</strong> at {{.Venue}}.</p>
<table cellpadding="4">
{{range .Seats}}<tr><td>{{.Section}} - Row {{.Row}} - Seat {{.Number}} ({{.TicketType}})</td><td align="right">{{money .Price}}</td></tr>
{{end}}<tr><td>Subtotal</td><td align="right">{{money .Subtotal}}</td></tr>
{{if gt .Discount 0.0}}<tr><td>Group discount</td><td align="right">-{{money .Discount}}</td></tr>
{{end}}<tr><td>Service fee</td><td align="right">{{money .ServiceFee}}</td></tr>
<tr><td><strong>Total paid</strong></td><td align="right"><strong>{{money .Total}}</strong></td></tr>
</table>
<p>Your printable ticket is attached. Present its QR code at the entrance.</p>
</body></html>`))

// SMTPMailer sends confirmations through an SMTP relay
type SMTPMailer struct {
	client   *mail.Client
	from     string
	fromName string
}

// NewSMTPMailer creates the SMTP client without dialing
func NewSMTPMailer(cfg config.EmailConfig) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTimeout(30 * time.Second),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not initialize smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.FromEmail, fromName: cfg.FromName}, nil
}

func (m *SMTPMailer) SendConfirmation(ctx context.Context, order *reservations.Order, ticketPDF []byte) error {
	msg, err := buildConfirmation(m.fromName, m.from, order, ticketPDF)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	return nil
}

// buildConfirmation assembles the confirmation message with the ticket attached
func buildConfirmation(fromName, from string, order *reservations.Order, ticketPDF []byte) (*mail.Msg, error) {
	if order.Customer.Email == "" {
		return nil, fmt.Errorf("order %s has no customer email", order.ID)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat(fromName, from); err != nil {
		return nil, fmt.Errorf("failed to set From address: %w", err)
	}
	if err := msg.AddToFormat(order.Customer.Name, order.Customer.Email); err != nil {
		return nil, fmt.Errorf("failed to set To address: %w", err)
	}
	msg.Subject(confirmationSubject(order))
	msg.SetMessageID()
	msg.SetDate()

	var html bytes.Buffer
	if err := confirmationTemplate.Execute(&html, order); err != nil {
		return nil, fmt.Errorf("failed to execute confirmation template: %w", err)
	}
	msg.SetBodyString(mail.TypeTextPlain, confirmationText(order))
	msg.AddAlternativeString(mail.TypeTextHTML, html.String())

	if len(ticketPDF) > 0 {
		name := fmt.Sprintf("ticket-%s.pdf", order.ID)
		if err := msg.AttachReader(name, bytes.NewReader(ticketPDF), mail.WithFileContentType(typePDF)); err != nil {
			return nil, fmt.Errorf("failed to attach ticket: %w", err)
		}
	}
	return msg, nil
}

func confirmationSubject(order *reservations.Order) string {
	if order.ShowTitle == "" {
		return fmt.Sprintf("Your tickets - Order #%s", order.ID)
	}
	return fmt.Sprintf("Your tickets for %s - Order #%s", order.ShowTitle, order.ID)
}

func confirmationText(order *reservations.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", order.Customer.Name)
	fmt.Fprintf(&b, "Your order #%s for %s at %s is confirmed.\n\n", order.ID, order.ShowTitle, order.Venue)
	for _, seat := range order.Seats {
		fmt.Fprintf(&b, "  %s - Row %s - Seat %d (%s)  $%.2f\n", seat.Section, seat.Row, seat.Number, seat.TicketType, seat.Price)
	}
	fmt.Fprintf(&b, "\nTotal paid: $%.2f\n", order.Total)
	b.WriteString("Your printable ticket is attached.\n")
	return b.String()
}

// LogMailer stands in for SMTP when email is disabled
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	if log == nil {
		log = logger.GetDefault()
	}
	return &LogMailer{log: log}
}

func (m *LogMailer) SendConfirmation(ctx context.Context, order *reservations.Order, ticketPDF []byte) error {
	m.log.InfoWithContext(ctx, "[MOCK] Confirmation email", map[string]interface{}{
		"order_id":     order.ID,
		"to":           order.Customer.Email,
		"subject":      confirmationSubject(order),
		"ticket_bytes": len(ticketPDF),
	})
	return nil
}
