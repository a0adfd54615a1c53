// Package stripe looks up subscription state in the Stripe API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammad-safakhou/askgate/internal/entitlement"
)

const defaultEndpoint = "https://api.stripe.com/v1"

// Client queries Stripe for a customer's active subscription.
type Client struct {
	APIKey   string
	Endpoint string
	http     *http.Client
}

// New builds a client. An empty endpoint falls back to the public API.
func New(apiKey, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{APIKey: apiKey, Endpoint: endpoint, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Source() entitlement.Source { return entitlement.SourceStripe }

func (c *Client) Lookup(ctx context.Context, userID string) (entitlement.Membership, error) {
	q := url.Values{}
	q.Set("customer", userID)
	q.Set("status", "active")
	q.Set("limit", "1")
	u := fmt.Sprintf("%s/subscriptions?%s", c.Endpoint, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return entitlement.Membership{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return entitlement.Membership{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return entitlement.Membership{}, fmt.Errorf("stripe returned status %d", resp.StatusCode)
	}

	var raw struct {
		Data []struct {
			Status string `json:"status"`
			Plan   struct {
				Nickname string `json:"nickname"`
			} `json:"plan"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return entitlement.Membership{}, err
	}
	for _, sub := range raw.Data {
		if sub.Status == "active" {
			return entitlement.Membership{Active: true, Plan: sub.Plan.Nickname}, nil
		}
	}
	return entitlement.Membership{}, nil
}
