// Package plan maps an entitlement to the quota bundle governing a request.
package plan

import (
	"strings"

	"github.com/mohammad-safakhou/askgate/config"
	"github.com/mohammad-safakhou/askgate/internal/entitlement"
)

// Tier names.
const (
	Free       = "free"
	Pro        = "pro"
	Enterprise = "enterprise"
)

// Policy is the quota/behavior bundle derived from an entitlement tier.
// Values are never mutated after construction.
type Policy struct {
	Name         string
	TokenBudget  int
	HistoryLimit int
	CharLimit    int
	EnabledTools []string
}

// Allows reports whether the policy enables the given tool id.
func (p Policy) Allows(toolID string) bool {
	for _, id := range p.EnabledTools {
		if id == toolID {
			return true
		}
	}
	return false
}

// Resolver selects a policy tier for an entitlement.
type Resolver struct {
	free       Policy
	pro        Policy
	enterprise Policy
}

// NewResolver builds a resolver from the configured tier table.
func NewResolver(cfg config.PlansConfig) *Resolver {
	return &Resolver{
		free:       tierPolicy(Free, cfg.Free),
		pro:        tierPolicy(Pro, cfg.Pro),
		enterprise: tierPolicy(Enterprise, cfg.Enterprise),
	}
}

func tierPolicy(name string, t config.TierConfig) Policy {
	tools := make([]string, len(t.EnabledTools))
	copy(tools, t.EnabledTools)
	return Policy{
		Name:         name,
		TokenBudget:  t.TokenBudget,
		HistoryLimit: t.HistoryLimit,
		CharLimit:    t.CharLimit,
		EnabledTools: tools,
	}
}

// Resolve is pure and total over all entitlement values: inactive maps to
// free, an active plan whose id contains "enterprise" maps to enterprise,
// any other active plan maps to pro. The substring match is deliberate and
// matches "enterprise" anywhere in the plan id.
func (r *Resolver) Resolve(e entitlement.Entitlement) Policy {
	if !e.Active {
		return r.free
	}
	if strings.Contains(e.Plan, Enterprise) {
		return r.enterprise
	}
	return r.pro
}
