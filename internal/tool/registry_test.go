package tool

import (
	"context"
	"testing"
	"time"
)

type nopTool struct{}

func (nopTool) Run(ctx context.Context, in Input) (Output, error) { return Output{}, nil }

func descriptor(id string, enabled bool) Descriptor {
	return Descriptor{ID: id, Name: id, Enabled: enabled, Tool: nopTool{}}
}

func TestNewRegistryRejectsBadDescriptors(t *testing.T) {
	if _, err := NewRegistry([]Descriptor{{Name: "no id", Tool: nopTool{}}}); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if _, err := NewRegistry([]Descriptor{descriptor("web", true), descriptor("web", true)}); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
	if _, err := NewRegistry([]Descriptor{{ID: "web", Enabled: true}}); err == nil {
		t.Fatalf("expected error for nil capability")
	}
}

func TestNewRegistryDefaultsTimeout(t *testing.T) {
	reg, err := NewRegistry([]Descriptor{descriptor("web", true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := reg.Get("web")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	if d.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %v", d.Timeout)
	}
}

func TestEligiblePreservesOrderAndFilters(t *testing.T) {
	reg, err := NewRegistry([]Descriptor{
		descriptor("web", true),
		descriptor("math", true),
		descriptor("kb", false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	allows := func(id string) bool { return id == "math" || id == "kb" || id == "web" }
	got := reg.Eligible(allows)
	if len(got) != 2 || got[0].ID != "web" || got[1].ID != "math" {
		t.Fatalf("expected [web math] in registration order, got %#v", got)
	}

	onlyMath := reg.Eligible(func(id string) bool { return id == "math" })
	if len(onlyMath) != 1 || onlyMath[0].ID != "math" {
		t.Fatalf("expected only math, got %#v", onlyMath)
	}
}

func TestAllReturnsACopy(t *testing.T) {
	reg, err := NewRegistry([]Descriptor{descriptor("web", true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := reg.All()
	all[0].Timeout = time.Nanosecond
	d, _ := reg.Get("web")
	if d.Timeout == time.Nanosecond {
		t.Fatalf("All must not expose internal state")
	}
}
