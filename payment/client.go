package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// CheckoutSession is the provider's hosted checkout reference
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// Client creates checkout sessions with the payment provider. Plan
// activation happens through the signed webhook, never from the redirect.
type Client struct {
	client     *resty.Client
	apiKey     string
	successURL string
	cancelURL  string
}

func NewClient(apiURL, apiKey, successURL, cancelURL string) *Client {
	return &Client{
		client:     resty.New().SetBaseURL(apiURL),
		apiKey:     apiKey,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateCheckoutSession opens a hosted checkout for a plan price reference
func (c *Client) CreateCheckoutSession(ctx context.Context, priceRef, customerEmail string, userID uint) (*CheckoutSession, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetBody(map[string]interface{}{
			"price_ref":      priceRef,
			"customer_email": customerEmail,
			"client_ref":     fmt.Sprintf("user-%d", userID),
			"success_url":    c.successURL,
			"cancel_url":     c.cancelURL,
		}).
		Post("/checkout/sessions")
	if err != nil {
		return nil, fmt.Errorf("checkout session request failed: %w", err)
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		return nil, fmt.Errorf("checkout session rejected: %s", resp.String())
	}

	var session CheckoutSession
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return nil, fmt.Errorf("invalid checkout session response: %w", err)
	}
	return &session, nil
}
