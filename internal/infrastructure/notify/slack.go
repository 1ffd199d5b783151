package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Orbita-api/internal/application/billing"
	"github.com/jhoicas/Orbita-api/pkg/money"
)

const (
	slackTimeout  = 5 * time.Second
	slackAttempts = 3
)

// SlackNotifier publica un mensaje en un incoming webhook de Slack.
type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	interval   time.Duration
}

var _ billing.Notifier = (*SlackNotifier)(nil)

// NewSlackNotifier construye el notificador. client nil usa uno con timeout de 5s.
func NewSlackNotifier(webhookURL string, client *http.Client) *SlackNotifier {
	if client == nil {
		client = &http.Client{Timeout: slackTimeout}
	}
	return &SlackNotifier{webhookURL: webhookURL, client: client, interval: 200 * time.Millisecond}
}

func (n *SlackNotifier) Name() string { return "slack" }

type slackMessage struct {
	Text string `json:"text"`
}

// InvoiceSent reintenta ante 5xx o error de red; un 4xx es definitivo.
func (n *SlackNotifier) InvoiceSent(ctx context.Context, in billing.InvoiceNotification) error {
	payload, err := json.Marshal(slackMessage{Text: slackText(in)})
	if err != nil {
		return fmt.Errorf("slack: serializar: %w", err)
	}

	policy := &backoff.ExponentialBackOff{
		InitialInterval:     n.interval,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         n.interval * 4,
	}
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, n.post(ctx, payload)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(slackAttempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			zerolog.Ctx(ctx).Debug().Err(err).Dur("wait", wait).Msg("slack webhook failed, retrying")
		}),
	)
	return err
}

func (n *SlackNotifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("slack: request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack: post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("slack: status %d", resp.StatusCode)
	case resp.StatusCode >= 300:
		return backoff.Permanent(fmt.Errorf("slack: status %d", resp.StatusCode))
	}
	return nil
}

func slackText(in billing.InvoiceNotification) string {
	client := in.ClientName
	if client == "" {
		client = in.ClientEmail
	}
	text := fmt.Sprintf(":receipt: Invoice *%s* sent to %s for %s", in.InvoiceNumber, client, money.Format(in.Total))
	if !in.DueDate.IsZero() {
		text += fmt.Sprintf(" (due %s)", in.DueDate.Format("2006-01-02"))
	}
	return text
}
