package provider

import "testing"

func TestNewRequiresAPIKeyForOpenAI(t *testing.T) {
	if _, err := New(OpenAI, Options{Model: "gpt-4o-mini"}); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := New(OpenAI, Options{APIKey: "key", Model: "gpt-4o-mini"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewAnthropicNotImplemented(t *testing.T) {
	if _, err := New(Anthropic, Options{APIKey: "key"}); err == nil {
		t.Fatalf("expected not-implemented error")
	}
}

func TestNewUnsupportedClient(t *testing.T) {
	if _, err := New(Client("cohere"), Options{}); err == nil {
		t.Fatalf("expected error for unsupported client")
	}
}
