// Package entitlement resolves and caches a user's subscription status.
package entitlement

import (
	"context"
	"time"
)

// Source identifies which provider vouched for an entitlement.
type Source string

const (
	SourceMemberful Source = "memberful"
	SourceStripe    Source = "stripe"
	SourceNone      Source = "none"
)

// Entitlement is a user's current access status. Immutable once constructed;
// an inactive entitlement carries no guaranteed plan value.
type Entitlement struct {
	Active bool   `json:"active"`
	Plan   string `json:"plan,omitempty"`
	Source Source `json:"source"`
}

// Inactive is the resolution for unknown or unsubscribed users.
func Inactive() Entitlement {
	return Entitlement{Active: false, Source: SourceNone}
}

// Membership is a single provider's answer for one user.
type Membership struct {
	Active bool
	Plan   string
}

// Provider looks up membership state in one upstream subscription service.
type Provider interface {
	Source() Source
	Lookup(ctx context.Context, userID string) (Membership, error)
}

// Store is the cache seam. Implementations must drop or flag expired
// entries on Get; Set replaces any previous entry for the key.
type Store interface {
	Get(ctx context.Context, userID string) (Entitlement, bool, error)
	Set(ctx context.Context, userID string, e Entitlement, ttl time.Duration) error
}
