package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookupActiveSubscription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("customer") != "cus_123" || q.Get("status") != "active" {
			t.Fatalf("unexpected query: %v", q)
		}
		_, _ = w.Write([]byte(`{"data":[{"status":"active","plan":{"nickname":"pro-monthly"}}]}`))
	}))
	defer srv.Close()

	c := New("sk_test", srv.URL, time.Second)
	m, err := c.Lookup(context.Background(), "cus_123")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !m.Active || m.Plan != "pro-monthly" {
		t.Fatalf("unexpected membership: %#v", m)
	}
}

func TestLookupNoSubscriptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := New("sk_test", srv.URL, time.Second)
	m, err := c.Lookup(context.Background(), "cus_123")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if m.Active {
		t.Fatalf("empty subscription list must be inactive")
	}
}

func TestLookupUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New("sk_test", srv.URL, time.Second)
	if _, err := c.Lookup(context.Background(), "cus_123"); err == nil {
		t.Fatalf("expected error for upstream 401")
	}
}
