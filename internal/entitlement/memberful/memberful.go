// Package memberful looks up membership state in the Memberful API.
package memberful

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mohammad-safakhou/askgate/internal/entitlement"
)

const defaultEndpoint = "https://api.memberful.com/v1"

// Client queries Memberful for a user's active subscription.
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

func (c *Client) Source() entitlement.Source { return entitlement.SourceMemberful }

func (c *Client) Lookup(ctx context.Context, userID string) (entitlement.Membership, error) {
	u := fmt.Sprintf("%s/members/%s/subscriptions", c.Endpoint, url.PathEscape(userID))
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
	if resp.StatusCode == http.StatusNotFound {
		return entitlement.Membership{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return entitlement.Membership{}, fmt.Errorf("memberful returned status %d", resp.StatusCode)
	}

	var raw struct {
		Subscriptions []struct {
			Active bool `json:"active"`
			Plan   struct {
				Slug string `json:"slug"`
			} `json:"plan"`
		} `json:"subscriptions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return entitlement.Membership{}, err
	}
	for _, sub := range raw.Subscriptions {
		if sub.Active {
			return entitlement.Membership{Active: true, Plan: sub.Plan.Slug}, nil
		}
	}
	return entitlement.Membership{}, nil
}
