package sms

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
)

const bizppurioEndpoint = "https://alimtalk-api.bizppurio.com"

// BulkClient is the simple distribution path recovered from the
// original's send_sms_all: it authenticates once against the bizppurio
// account and delivers one message to every configured recipient,
// logging per-recipient failures without halting the batch. It
// satisfies alert.Sender.
type BulkClient struct {
	http       *resty.Client
	baseURL    string
	accountID  string
	secretKey  string
	from       string
	recipients []string
	logger     Logger
}

// NewBulkClient constructs a BulkClient from configuration and the
// configured recipient list (ALERT_NUMBERS).
func NewBulkClient(cfg config.SMSConfig, recipients []string) *BulkClient {
	return &BulkClient{
		http:       resty.New().SetTimeout(10 * time.Second),
		baseURL:    bizppurioEndpoint,
		accountID:  cfg.BizAccountID,
		secretKey:  cfg.BizSecretKey,
		from:       cfg.BizFrom,
		recipients: recipients,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger used to report per-recipient failures.
func (b *BulkClient) SetLogger(logger Logger) {
	b.logger = logger
}

// SetBaseURL overrides the provider endpoint, for testing against a
// local server.
func (b *BulkClient) SetBaseURL(url string) {
	b.baseURL = url
}

// SendAll delivers message to every configured recipient. A failure
// sending to one recipient is logged and does not prevent delivery to
// the rest, matching send_sms_all's best-effort loop.
func (b *BulkClient) SendAll(ctx context.Context, message string) error {
	if len(b.recipients) == 0 {
		return ErrNoRecipients
	}

	for _, number := range b.recipients {
		if err := b.sendTo(ctx, number, message); err != nil {
			b.logger.Error("sms send failed", "to", number, "error", err)
		}
	}
	return nil
}

func (b *BulkClient) sendTo(ctx context.Context, phoneNumber, message string) error {
	resp, err := b.http.R().
		SetContext(ctx).
		SetBasicAuth(b.accountID, b.secretKey).
		SetBody(map[string]string{
			"from": b.from,
			"to":   phoneNumber,
			"text": message,
		}).
		Post(b.baseURL + "/v2/sms")
	if err != nil {
		return fmt.Errorf("sending to %s: %w", phoneNumber, err)
	}
	if resp.IsError() {
		return fmt.Errorf("provider returned %s for %s", resp.Status(), phoneNumber)
	}
	return nil
}
