// Package notify implementa los canales de salida de billing.Notifier (correo y Slack).
package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Orbita-api/internal/application/billing"
	"github.com/jhoicas/Orbita-api/pkg/config"
	"github.com/jhoicas/Orbita-api/pkg/money"
)

// mailSender abstrae gomail.Dialer para poder sustituirlo en tests.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier envía al cliente el aviso de factura emitida vía SMTP.
type EmailNotifier struct {
	sender mailSender
	from   string
}

var _ billing.Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier construye el notificador con el dialer SMTP de la configuración.
func NewEmailNotifier(cfg config.NotifyConfig) *EmailNotifier {
	return &EmailNotifier{
		sender: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.FromEmail,
	}
}

func (n *EmailNotifier) Name() string { return "email" }

// InvoiceSent omite en silencio las facturas sin correo de cliente.
func (n *EmailNotifier) InvoiceSent(ctx context.Context, in billing.InvoiceNotification) error {
	to := strings.TrimSpace(in.ClientEmail)
	if to == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Invoice %s", in.InvoiceNumber))
	m.SetBody("text/plain", emailBody(in))

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("email: enviar %s: %w", in.InvoiceNumber, err)
	}
	return nil
}

func emailBody(in billing.InvoiceNotification) string {
	var b strings.Builder
	name := in.ClientName
	if name == "" {
		name = "customer"
	}
	fmt.Fprintf(&b, "Hello %s,\n\n", name)
	fmt.Fprintf(&b, "Invoice %s for %s has been issued.\n", in.InvoiceNumber, money.Format(in.Total))
	if !in.DueDate.IsZero() {
		fmt.Fprintf(&b, "Payment is due on %s.\n", in.DueDate.Format("January 2, 2006"))
	}
	b.WriteString("\nThank you for your business.\n")
	return b.String()
}
