package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	source     Source
	membership Membership
	err        error
	calls      int
}

func (p *fakeProvider) Source() Source { return p.source }

func (p *fakeProvider) Lookup(ctx context.Context, userID string) (Membership, error) {
	p.calls++
	return p.membership, p.err
}

func TestResolveAnonymousSkipsProvidersAndStore(t *testing.T) {
	p := &fakeProvider{source: SourceMemberful, membership: Membership{Active: true, Plan: "pro"}}
	store := NewMemoryStore()
	c := NewCache([]Provider{p}, store, time.Minute, nil)

	got := c.Resolve(context.Background(), "")
	if got.Active {
		t.Fatalf("anonymous user must resolve inactive")
	}
	if got.Source != SourceNone {
		t.Fatalf("expected source none, got %s", got.Source)
	}
	if p.calls != 0 {
		t.Fatalf("provider should not be queried for anonymous users")
	}
}

func TestResolveFirstActiveProviderWins(t *testing.T) {
	memberful := &fakeProvider{source: SourceMemberful, membership: Membership{Active: true, Plan: "enterprise"}}
	stripe := &fakeProvider{source: SourceStripe, membership: Membership{Active: true, Plan: "pro"}}
	c := NewCache([]Provider{memberful, stripe}, NewMemoryStore(), time.Minute, nil)

	got := c.Resolve(context.Background(), "alice")
	if !got.Active || got.Plan != "enterprise" || got.Source != SourceMemberful {
		t.Fatalf("unexpected resolution: %#v", got)
	}
	if stripe.calls != 0 {
		t.Fatalf("later providers must not be queried after a hit")
	}
}

func TestResolveFallsThroughInactiveProviders(t *testing.T) {
	memberful := &fakeProvider{source: SourceMemberful}
	stripe := &fakeProvider{source: SourceStripe, membership: Membership{Active: true, Plan: "pro"}}
	c := NewCache([]Provider{memberful, stripe}, NewMemoryStore(), time.Minute, nil)

	got := c.Resolve(context.Background(), "alice")
	if !got.Active || got.Source != SourceStripe {
		t.Fatalf("expected stripe resolution, got %#v", got)
	}
}

func TestResolveSwallowsProviderErrors(t *testing.T) {
	broken := &fakeProvider{source: SourceMemberful, err: errors.New("upstream 500")}
	stripe := &fakeProvider{source: SourceStripe, membership: Membership{Active: true, Plan: "pro"}}
	c := NewCache([]Provider{broken, stripe}, NewMemoryStore(), time.Minute, nil)

	got := c.Resolve(context.Background(), "alice")
	if !got.Active || got.Source != SourceStripe {
		t.Fatalf("expected fallback past the failing provider, got %#v", got)
	}
}

func TestResolveCachesHitsAndMisses(t *testing.T) {
	active := &fakeProvider{source: SourceMemberful, membership: Membership{Active: true, Plan: "pro"}}
	c := NewCache([]Provider{active}, NewMemoryStore(), time.Minute, nil)

	c.Resolve(context.Background(), "alice")
	c.Resolve(context.Background(), "alice")
	if active.calls != 1 {
		t.Fatalf("expected one provider lookup, got %d", active.calls)
	}

	none := &fakeProvider{source: SourceStripe}
	c2 := NewCache([]Provider{none}, NewMemoryStore(), time.Minute, nil)
	c2.Resolve(context.Background(), "bob")
	c2.Resolve(context.Background(), "bob")
	if none.calls != 1 {
		t.Fatalf("inactive resolutions must be cached too, got %d lookups", none.calls)
	}
}

func TestResolveRefreshesAfterTTL(t *testing.T) {
	p := &fakeProvider{source: SourceMemberful, membership: Membership{Active: true, Plan: "pro"}}
	store := NewMemoryStore()
	base := time.Unix(1_700_000_000, 0)
	store.SetClock(func() time.Time { return base })
	c := NewCache([]Provider{p}, store, time.Minute, nil)

	c.Resolve(context.Background(), "alice")
	store.SetClock(func() time.Time { return base.Add(61 * time.Second) })
	c.Resolve(context.Background(), "alice")
	if p.calls != 2 {
		t.Fatalf("expected a fresh lookup after expiry, got %d", p.calls)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	base := time.Unix(1_700_000_000, 0)
	store.SetClock(func() time.Time { return base })

	if err := store.Set(context.Background(), "alice", Entitlement{Active: true, Plan: "pro", Source: SourceStripe}, time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok, _ := store.Get(context.Background(), "alice"); !ok {
		t.Fatalf("expected hit inside the ttl")
	}
	store.SetClock(func() time.Time { return base.Add(time.Minute) })
	if _, ok, _ := store.Get(context.Background(), "alice"); ok {
		t.Fatalf("expected miss at the ttl boundary")
	}
}
