package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"lenslink-backend-go/internal/config"
)

// PaymentGateway finalizes previously authorized charges. A failed commit is
// logged by the caller but never rolls back the status transition that
// triggered it; reconciliation happens out-of-band.
type PaymentGateway interface {
	CommitTransaction(ctx context.Context, transactionID string) error
}

// paymentClient implements PaymentGateway against the processor's
// form-encoded commit endpoint.
type paymentClient struct {
	httpClient *http.Client
	baseURL    string
	merchantID string
	passphrase string
	logger     *zap.Logger
}

// NewPaymentClient creates a PaymentGateway from the app config.
func NewPaymentClient(appConfig *config.Config, logger *zap.Logger) PaymentGateway {
	return &paymentClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    appConfig.PaymentGatewayURL,
		merchantID: appConfig.PaymentMerchantID,
		passphrase: appConfig.PaymentPassphrase,
		logger:     logger,
	}
}

// CommitTransaction issues the commitTrans call for a stored transaction ID.
// The gateway answers 200 with a query-string body; CCode "0" means success.
func (c *paymentClient) CommitTransaction(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return fmt.Errorf("payment commit: transaction ID is empty")
	}

	form := url.Values{}
	form.Set("action", "commitTrans")
	form.Set("Masof", c.merchantID)
	form.Set("TransId", transactionID)
	form.Set("PassP", c.passphrase)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/p/", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("payment commit: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment commit for transaction '%s' failed: %w", transactionID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return fmt.Errorf("payment commit: failed to read response for '%s': %w", transactionID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("payment gateway returned status %d for '%s': %s", resp.StatusCode, transactionID, string(body))
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return fmt.Errorf("payment commit: unparseable gateway response for '%s': %q", transactionID, string(body))
	}
	if code := values.Get("CCode"); code != "0" {
		return fmt.Errorf("payment gateway rejected commit for '%s': CCode=%s", transactionID, code)
	}

	c.logger.Info("Payment transaction committed", zap.String("transactionId", transactionID))
	return nil
}
