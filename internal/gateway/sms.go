package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"lenslink-backend-go/internal/config"
)

// SMSSender submits a single text message to a phone number. Callers treat
// sends as fire-and-forget: they log failures and move on, never retry.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// smsRequest is the wire shape the SMS gateway expects.
type smsRequest struct {
	Data smsRequestData `json:"Data"`
}

type smsRequestData struct {
	Message    string         `json:"Message"`
	Recipients []smsRecipient `json:"Recipients"`
	Settings   smsSettings    `json:"Settings"`
}

type smsRecipient struct {
	Phone string `json:"Phone"`
}

type smsSettings struct {
	Sender string `json:"Sender"`
}

// smsClient implements SMSSender against the HTTP SMS gateway.
type smsClient struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	sender     string
	logger     *zap.Logger
}

// NewSMSClient creates an SMSSender from the app config.
func NewSMSClient(appConfig *config.Config, logger *zap.Logger) SMSSender {
	return &smsClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    appConfig.SMSGatewayURL,
		username:   appConfig.SMSGatewayUsername,
		password:   appConfig.SMSGatewayPassword,
		sender:     appConfig.SMSSenderName,
		logger:     logger,
	}
}

// Send submits one message to one recipient via POST /api/v2/SMS/SendSms with
// basic-auth credentials. A non-2xx response is an error; there is no retry
// and no delivery tracking.
func (c *smsClient) Send(ctx context.Context, phone, message string) error {
	if phone == "" {
		return fmt.Errorf("sms send: phone number is empty")
	}

	payload := smsRequest{
		Data: smsRequestData{
			Message:    message,
			Recipients: []smsRecipient{{Phone: phone}},
			Settings:   smsSettings{Sender: c.sender},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sms send: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v2/SMS/SendSms", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms send: failed to build request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms send to '%s' failed: %w", phone, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned status %d for '%s': %s", resp.StatusCode, phone, string(respBody))
	}

	c.logger.Debug("SMS submitted to gateway", zap.String("phone", phone))
	return nil
}
