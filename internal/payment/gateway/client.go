package gateway

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/obeddx/notarichCafe-sub002/pkg/apperr"
	"github.com/obeddx/notarichCafe-sub002/pkg/logger"
)

// Config holds the payment gateway connection settings.
type Config struct {
	BaseURL   string
	ServerKey string
	Timeout   time.Duration
}

// Client talks to the external payment gateway.
type Client struct {
	baseURL   string
	serverKey string
	http      *http.Client
}

// NewClient creates a gateway client with a bounded request timeout.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		serverKey: cfg.ServerKey,
		http:      &http.Client{Timeout: timeout},
	}
}

// TransactionRequest describes the charge to create.
type TransactionRequest struct {
	OrderID     string  `json:"order_id"`
	GrossAmount float64 `json:"gross_amount"`
	Customer    string  `json:"customer_name,omitempty"`
}

// TransactionResponse is the gateway's answer to a created charge.
type TransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// CreateTransaction registers a charge with the gateway and returns the
// payment token and redirect URL.
func (c *Client) CreateTransaction(ctx context.Context, tx TransactionRequest) (*TransactionResponse, error) {
	if tx.OrderID == "" {
		return nil, apperr.Validation("order id is required")
	}
	if tx.GrossAmount <= 0 {
		return nil, apperr.Validation("gross amount must be positive")
	}

	body, err := json.Marshal(map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     tx.OrderID,
			"gross_amount": tx.GrossAmount,
		},
		"customer_details": map[string]interface{}{
			"first_name": tx.Customer,
		},
	})
	if err != nil {
		return nil, apperr.UpstreamPayment("encode transaction", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.UpstreamPayment("build transaction request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.serverKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.UpstreamPayment("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error(ctx).
			Int("status", resp.StatusCode).
			Str("order_id", tx.OrderID).
			Msg("Payment gateway rejected transaction")
		return nil, apperr.UpstreamPayment(
			fmt.Sprintf("payment gateway returned %d", resp.StatusCode), nil)
	}

	var out TransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperr.UpstreamPayment("decode gateway response", err)
	}
	return &out, nil
}

// Signature computes the webhook signature for the given notification
// fields: sha512 hex of order id, status code, gross amount and server key
// concatenated.
func (c *Client) Signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + c.serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks a webhook notification's signature key.
func (c *Client) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	return c.Signature(orderID, statusCode, grossAmount) == signature
}
