// Package bkash is a client for the bKash tokenized checkout API. It keeps a
// grant token cached and exposes the two calls the application needs: create
// payment and execute payment.
package bkash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/lokhacodes/UComp/helpers"
)

// StatusSuccess is the gateway's success status code. Every other value is a
// failure.
const StatusSuccess = "0000"

type Config struct {
	BaseURL   string
	Username  string
	Password  string
	AppKey    string
	AppSecret string
}

type Client struct {
	cfg        Config
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: helpers.NewTransportWithLogger(http.DefaultTransport),
		},
	}
}

// PaymentRequest describes a payment creation call. OrderID is the
// caller-generated merchant invoice number and must be unique and at most 20
// characters.
type PaymentRequest struct {
	Amount      string
	CallbackURL string
	OrderID     string
	Reference   string
	Name        string
	Email       string
	Phone       string
}

type PaymentResponse struct {
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	PaymentID     string `json:"paymentID"`
	BkashURL      string `json:"bkashURL"`
}

type ExecuteResponse struct {
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	PaymentID     string `json:"paymentID"`
	TrxID         string `json:"trxID"`
}

type grantTokenResponse struct {
	StatusCode string `json:"statusCode"`
	IDToken    string `json:"id_token"`
	ExpiresIn  int    `json:"expires_in"`
}

// CreatePayment opens a payment intent on the gateway. The call is retried
// once on transport failure; execution never is, since it is driven by the
// gateway's redirect callback.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	body := map[string]any{
		"mode":                  "0011",
		"payerReference":        req.Reference,
		"callbackURL":           req.CallbackURL,
		"amount":                req.Amount,
		"currency":              "BDT",
		"intent":                "sale",
		"merchantInvoiceNumber": req.OrderID,
		"merchantAssociationInfo": map[string]string{
			"name":  req.Name,
			"email": req.Email,
			"phone": req.Phone,
		},
	}

	retrier := retry.NewRetrier(2, 100*time.Millisecond, time.Second)

	var resp PaymentResponse
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		return c.post(ctx, "/tokenized/checkout/create", body, &resp)
	})
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) ExecutePayment(ctx context.Context, paymentID string) (*ExecuteResponse, error) {
	body := map[string]any{
		"paymentID": paymentID,
	}

	var resp ExecuteResponse
	err := c.post(ctx, "/tokenized/checkout/execute", body, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	token, err := c.grantToken(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("X-App-Key", c.cfg.AppKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bkash: %s returned HTTP %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// grantToken returns a cached grant token, refreshing it one minute before
// expiry.
func (c *Client) grantToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.token, nil
	}

	payload, err := json.Marshal(map[string]string{
		"app_key":    c.cfg.AppKey,
		"app_secret": c.cfg.AppSecret,
	})
	if err != nil {
		return "", err
	}

	retrier := retry.NewRetrier(2, 100*time.Millisecond, time.Second)

	var grant grantTokenResponse
	err = retrier.RunContext(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/tokenized/checkout/token/grant", bytes.NewReader(payload))
		if err != nil {
			return retry.Stop(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.Header.Set("username", c.cfg.Username)
		req.Header.Set("password", c.cfg.Password)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("bkash: token grant returned HTTP %d", resp.StatusCode)
		}

		return json.NewDecoder(resp.Body).Decode(&grant)
	})
	if err != nil {
		return "", err
	}
	if grant.IDToken == "" {
		return "", fmt.Errorf("bkash: token grant failed with status %q", grant.StatusCode)
	}

	c.token = grant.IDToken
	expiresIn := grant.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	c.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)

	return c.token, nil
}
