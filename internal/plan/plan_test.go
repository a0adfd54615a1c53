package plan

import (
	"testing"

	"github.com/mohammad-safakhou/askgate/config"
	"github.com/mohammad-safakhou/askgate/internal/entitlement"
)

func testPlans() config.PlansConfig {
	return config.PlansConfig{
		Free:       config.TierConfig{TokenBudget: 512, HistoryLimit: 4, CharLimit: 400, EnabledTools: []string{"math"}},
		Pro:        config.TierConfig{TokenBudget: 2048, HistoryLimit: 12, CharLimit: 1200, EnabledTools: []string{"web", "math"}},
		Enterprise: config.TierConfig{TokenBudget: 8192, HistoryLimit: 24, CharLimit: 2400, EnabledTools: []string{"web", "math", "kb"}},
	}
}

func TestResolveInactiveIsFree(t *testing.T) {
	r := NewResolver(testPlans())
	p := r.Resolve(entitlement.Inactive())
	if p.Name != Free {
		t.Fatalf("expected free policy, got %s", p.Name)
	}
	if p.TokenBudget != 512 {
		t.Fatalf("expected free token budget 512, got %d", p.TokenBudget)
	}
}

func TestResolveEnterpriseSubstring(t *testing.T) {
	r := NewResolver(testPlans())
	for _, planID := range []string{"enterprise", "enterprise-annual", "acme-enterprise-2024"} {
		p := r.Resolve(entitlement.Entitlement{Active: true, Plan: planID})
		if p.Name != Enterprise {
			t.Fatalf("plan %q: expected enterprise, got %s", planID, p.Name)
		}
	}
}

func TestResolveMatchIsCaseSensitive(t *testing.T) {
	r := NewResolver(testPlans())
	p := r.Resolve(entitlement.Entitlement{Active: true, Plan: "Enterprise"})
	if p.Name != Pro {
		t.Fatalf("expected pro for capitalized plan id, got %s", p.Name)
	}
}

func TestResolveActiveDefaultsToPro(t *testing.T) {
	r := NewResolver(testPlans())
	for _, planID := range []string{"monthly", "pro", "gold", ""} {
		p := r.Resolve(entitlement.Entitlement{Active: true, Plan: planID})
		if p.Name != Pro {
			t.Fatalf("plan %q: expected pro, got %s", planID, p.Name)
		}
	}
}

func TestPolicyAllows(t *testing.T) {
	r := NewResolver(testPlans())
	free := r.Resolve(entitlement.Inactive())
	if !free.Allows("math") {
		t.Fatalf("free plan should allow math")
	}
	if free.Allows("web") {
		t.Fatalf("free plan should not allow web")
	}
	ent := r.Resolve(entitlement.Entitlement{Active: true, Plan: "enterprise"})
	if !ent.Allows("kb") {
		t.Fatalf("enterprise plan should allow kb")
	}
}

func TestResolverCopiesToolSlices(t *testing.T) {
	cfg := testPlans()
	r := NewResolver(cfg)
	cfg.Free.EnabledTools[0] = "web"
	if r.Resolve(entitlement.Inactive()).EnabledTools[0] != "math" {
		t.Fatalf("resolver should not share the config tool slice")
	}
}
