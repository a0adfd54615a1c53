package ask

import (
	"strings"
	"testing"
)

func turns(contents ...string) []ConversationTurn {
	out := make([]ConversationTurn, len(contents))
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		out[i] = ConversationTurn{Role: role, Content: c}
	}
	return out
}

func TestCondenseEmptyHistory(t *testing.T) {
	if got := Condense(nil, 4, 400); got != nil {
		t.Fatalf("expected nil for empty history, got %#v", got)
	}
	if got := Condense(turns("a", "b"), 0, 400); got != nil {
		t.Fatalf("expected nil for zero history limit, got %#v", got)
	}
}

func TestCondenseKeepsLastTurns(t *testing.T) {
	got := Condense(turns("one", "two", "three", "four", "five"), 2, 400)
	if len(got) != 2 || got[0] != "four" || got[1] != "five" {
		t.Fatalf("expected last two turns, got %#v", got)
	}
}

func TestCondenseShortHistoryPassesThrough(t *testing.T) {
	got := Condense(turns("one", "two"), 10, 400)
	if len(got) != 2 || got[0] != "one" || got[1] != "two" {
		t.Fatalf("expected both turns unchanged, got %#v", got)
	}
}

func TestCondenseTruncatesWithMarker(t *testing.T) {
	long := strings.Repeat("x", 50)
	got := Condense(turns(long), 4, 10)
	if len(got) != 1 {
		t.Fatalf("expected one turn, got %d", len(got))
	}
	want := strings.Repeat("x", 10) + TruncationMarker
	if got[0] != want {
		t.Fatalf("expected %q, got %q", want, got[0])
	}
}

func TestCondenseTruncationIsRuneSafe(t *testing.T) {
	got := Condense(turns("héllo wörld"), 4, 5)
	if got[0] != "héllo"+TruncationMarker {
		t.Fatalf("expected rune-based cut, got %q", got[0])
	}
}

func TestCondenseWithinLimitsIsIdempotent(t *testing.T) {
	history := turns("short", "also short")
	first := Condense(history, 4, 400)
	second := Condense(turns(first...), 4, 400)
	if len(first) != len(second) {
		t.Fatalf("length changed on second pass: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("turn %d changed on second pass: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestCondenseDoesNotMutateInput(t *testing.T) {
	history := turns(strings.Repeat("y", 50))
	Condense(history, 4, 10)
	if len(history[0].Content) != 50 {
		t.Fatalf("input history was mutated")
	}
}
