package server

import (
	"testing"
	"time"

	"github.com/mohammad-safakhou/askgate/config"
)

func TestBuildRegistryFromConfig(t *testing.T) {
	cfg := config.ToolsConfig{
		WebSearch: config.WebSearchConfig{Enabled: true, Provider: "serper", SerperAPIKey: "key", MaxResults: 5, Timeout: 4 * time.Second},
		Calc:      config.CalcConfig{Enabled: true, Timeout: time.Second},
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	all := reg.All()
	if len(all) != 2 || all[0].ID != "web" || all[1].ID != "math" {
		t.Fatalf("expected [web math], got %#v", all)
	}
	if all[0].Timeout != 4*time.Second {
		t.Fatalf("web timeout not taken from config: %v", all[0].Timeout)
	}
}

func TestBuildRegistrySkipsDisabledTools(t *testing.T) {
	reg, err := buildRegistry(config.ToolsConfig{
		Calc: config.CalcConfig{Enabled: true, Timeout: time.Second},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if all := reg.All(); len(all) != 1 || all[0].ID != "math" {
		t.Fatalf("expected math only, got %#v", all)
	}
}

func TestBuildRegistryRejectsUnknownSearchProvider(t *testing.T) {
	_, err := buildRegistry(config.ToolsConfig{
		WebSearch: config.WebSearchConfig{Enabled: true, Provider: "duckduckgo"},
	})
	if err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestBuildProviders(t *testing.T) {
	none := buildProviders(config.EntitlementsConfig{})
	if len(none) != 0 {
		t.Fatalf("expected no providers without api keys, got %d", len(none))
	}

	both := buildProviders(config.EntitlementsConfig{
		Memberful: config.MemberfulConfig{APIKey: "m-key"},
		Stripe:    config.StripeAPIKeyOnly{APIKey: "sk_test"},
	})
	if len(both) != 2 {
		t.Fatalf("expected two providers, got %d", len(both))
	}
	if both[0].Source() != "memberful" || both[1].Source() != "stripe" {
		t.Fatalf("providers out of priority order: %s, %s", both[0].Source(), both[1].Source())
	}
}

func TestBuildStoresWithoutRedis(t *testing.T) {
	entStore, rlStore := buildStores(nil)
	if entStore == nil || rlStore == nil {
		t.Fatalf("expected in-process stores when redis is absent")
	}
}
