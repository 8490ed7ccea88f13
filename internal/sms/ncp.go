package sms

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/wacker23/dolphin-core/internal/infrastructure/config"
)

const ncpEndpoint = "https://sens.apigw.ntruss.com"

// Logger is the minimal logging surface the gateway needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Message mirrors one NCP SENS SmsMessage entry.
type Message struct {
	RequestID     string
	MessageID     string
	RequestTime   string
	ContentType   string
	CountryCode   string
	From          string
	To            string
	Status        string
	StatusCode    string
	StatusName    string
	StatusMessage string
	CompleteTime  string
	TelcoCode     string
}

// GetTelcoCode maps the carrier code NCP reports onto its common Korean
// short name (KTF -> KT, LGT -> U+); any other code passes through.
func (m Message) GetTelcoCode() string {
	switch m.TelcoCode {
	case "KTF":
		return "KT"
	case "LGT":
		return "U+"
	default:
		return m.TelcoCode
	}
}

// ToNumber renders the recipient as "<telco> +<country> XX-XXXX-XXXX",
// dropping the leading digit (e.g. "01012345678" -> "10-1234-5678").
func (m Message) ToNumber() string {
	digits := m.To
	if len(digits) > 0 {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, c := range digits {
		if i == 2 || i == 6 {
			b.WriteByte('-')
		}
		b.WriteRune(c)
	}
	return fmt.Sprintf("%s +%s %s", m.GetTelcoCode(), m.CountryCode, b.String())
}

type ncpSmsResponse struct {
	RequestID   string `json:"requestId"`
	RequestTime string `json:"requestTime"`
	StatusCode  string `json:"statusCode"`
	StatusName  string `json:"statusName"`
}

type ncpSmsMessagesPage struct {
	StatusCode string           `json:"statusCode"`
	StatusName string           `json:"statusName"`
	Messages   []ncpMessageWire `json:"messages"`
}

type ncpMessageWire struct {
	RequestID     string  `json:"requestId"`
	MessageID     string  `json:"messageId"`
	RequestTime   string  `json:"requestTime"`
	ContentType   string  `json:"contentType"`
	CountryCode   string  `json:"countryCode"`
	From          string  `json:"from"`
	To            string  `json:"to"`
	Status        string  `json:"status"`
	StatusCode    *string `json:"statusCode"`
	StatusName    *string `json:"statusName"`
	StatusMessage *string `json:"statusMessage"`
	CompleteTime  *string `json:"completeTime"`
	TelcoCode     *string `json:"telcoCode"`
}

func (w ncpMessageWire) toMessage() Message {
	m := Message{
		RequestID:   w.RequestID,
		MessageID:   w.MessageID,
		RequestTime: w.RequestTime,
		ContentType: w.ContentType,
		CountryCode: w.CountryCode,
		From:        w.From,
		To:          w.To,
		Status:      w.Status,
	}
	if w.StatusCode != nil {
		m.StatusCode = *w.StatusCode
	}
	if w.StatusName != nil {
		m.StatusName = *w.StatusName
	}
	if w.StatusMessage != nil {
		m.StatusMessage = *w.StatusMessage
	}
	if w.CompleteTime != nil {
		m.CompleteTime = *w.CompleteTime
	}
	if w.TelcoCode != nil {
		m.TelcoCode = *w.TelcoCode
	}
	return m
}

// NCPClient is the signed NCP SENS client: it submits one SMS and polls
// its delivery status to completion (§4.8, Open Question #3).
type NCPClient struct {
	http      *resty.Client
	baseURL   string
	accessKey string
	secretKey string
	serviceID string
	from      string
	pollEvery time.Duration
	pollMax   int
	logger    Logger
}

// NewNCPClient constructs a signed NCP SENS client from configuration.
func NewNCPClient(cfg config.SMSConfig, from string) *NCPClient {
	return &NCPClient{
		http:      resty.New().SetTimeout(10 * time.Second),
		baseURL:   ncpEndpoint,
		accessKey: cfg.NCPAccessKey,
		secretKey: cfg.NCPSecretKey,
		serviceID: cfg.NCPSmsID,
		from:      from,
		pollEvery: cfg.PollInterval,
		pollMax:   cfg.PollMaxAttempts,
		logger:    noopLogger{},
	}
}

// SetBaseURL overrides the NCP SENS endpoint, for testing against a
// local server.
func (c *NCPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// SetLogger sets the logger used to report send and polling failures.
func (c *NCPClient) SetLogger(logger Logger) {
	c.logger = logger
}

func makeTimestamp() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// sign computes the NCP SENS v2 signature: HMAC-SHA256 over
// "{method} {uri}\n{timestamp}\n{accessKey}", base64-encoded.
func sign(method, uri, timestamp, accessKey, secretKey string) string {
	message := fmt.Sprintf("%s %s\n%s\n%s", method, uri, timestamp, accessKey)
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (c *NCPClient) request(ctx context.Context, method, uri string) *resty.Request {
	timestamp := makeTimestamp()
	signature := sign(method, uri, timestamp, c.accessKey, c.secretKey)

	return c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-ncp-apigw-timestamp", timestamp).
		SetHeader("x-ncp-iam-access-key", c.accessKey).
		SetHeader("x-ncp-apigw-signature-v2", signature)
}

// Send submits one SMS to phoneNumber and polls delivery status every
// pollEvery until the message reaches status "COMPLETED", bounded by
// pollMax attempts. It returns nil, nil if NCP rejects the submission —
// the caller is expected to log and move on, matching the original's
// best-effort send_sms.
func (c *NCPClient) Send(ctx context.Context, phoneNumber, message string) (*Message, error) {
	uri := fmt.Sprintf("/sms/v2/services/%s/messages", c.serviceID)

	resp, err := c.request(ctx, "POST", uri).
		SetBody(map[string]any{
			"type":        "SMS",
			"countryCode": "82",
			"from":        c.from,
			"content":     message,
			"messages":    []map[string]string{{"to": phoneNumber}},
		}).
		SetResult(&ncpSmsResponse{}).
		Post(c.baseURL + uri)
	if err != nil {
		return nil, fmt.Errorf("submitting sms: %w", err)
	}

	result, ok := resp.Result().(*ncpSmsResponse)
	if !ok || result.StatusCode != "202" || result.StatusName != "success" {
		c.logger.Error("sms submission rejected", "status", resp.Status())
		return nil, nil
	}

	msg, err := c.getMessage(ctx, result.RequestID)
	if err != nil || msg == nil {
		return nil, err
	}

	for attempt := 0; msg.Status != "COMPLETED" && attempt < c.pollMax; attempt++ {
		select {
		case <-ctx.Done():
			return msg, ctx.Err()
		case <-time.After(c.pollEvery):
		}

		next, err := c.getMessage(ctx, result.RequestID)
		if err != nil {
			continue // transient polling failure, retry next tick
		}
		if next != nil {
			msg = next
		}
	}

	c.logger.Info("sms delivered", "complete_time", msg.CompleteTime, "message_id", msg.MessageID, "to", msg.ToNumber())
	return msg, nil
}

func (c *NCPClient) getMessage(ctx context.Context, requestID string) (*Message, error) {
	uri := fmt.Sprintf("/sms/v2/services/%s/messages?requestId=%s", c.serviceID, requestID)

	resp, err := c.request(ctx, "GET", uri).
		SetResult(&ncpSmsMessagesPage{}).
		Get(c.baseURL + uri)
	if err != nil {
		return nil, fmt.Errorf("polling sms status: %w", err)
	}

	page, ok := resp.Result().(*ncpSmsMessagesPage)
	if !ok || page.StatusCode != "202" || page.StatusName != "success" || len(page.Messages) == 0 {
		return nil, nil
	}

	msg := page.Messages[0].toMessage()
	return &msg, nil
}
