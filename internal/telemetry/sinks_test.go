package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSinkPostsEvent(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL)
	event := Event{ID: "r1", Plan: "pro", TokensUsed: 42, Latency: 120 * time.Millisecond, Success: true}
	if err := sink.Record(context.Background(), event); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if got.ID != "r1" || got.Plan != "pro" || got.TokensUsed != 42 {
		t.Fatalf("unexpected delivered event: %#v", got)
	}
}

func TestHTTPSinkRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if err := NewHTTPSink(srv.URL).Record(context.Background(), Event{ID: "r1"}); err == nil {
		t.Fatalf("expected error for 502 response")
	}
}

func TestHTTPAlertSinkPostsMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
	}))
	defer srv.Close()

	if err := NewHTTPAlertSink(srv.URL).Notify(context.Background(), "backend down"); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if got["text"] != "backend down" {
		t.Fatalf("unexpected alert body: %#v", got)
	}
}

func TestSinkConstructorsRequireURL(t *testing.T) {
	if NewHTTPSink("") != nil {
		t.Fatalf("expected nil sink for empty url")
	}
	if NewHTTPAlertSink("") != nil {
		t.Fatalf("expected nil alert sink for empty url")
	}
}
