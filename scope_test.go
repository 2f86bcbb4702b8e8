package csscounter

import (
	"reflect"
	"testing"
)

func TestCounterScopesNesting(t *testing.T) {
	cs := NewCounterScopes()
	cs.Reset("item", 1, 0)
	cs.Reset("item", 0, 1)
	cs.Increment("item", 1, 2)
	if got, want := cs.Values("item"), []int{1, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
	if got, want := cs.Counters("item", "-", "lower-alpha"), "a-a"; got != want {
		t.Errorf("Counters = %q, want %q", got, want)
	}

	// leaving the nested element drops its scope
	cs.Prune(0)
	if got, want := cs.Value("item"), 1; got != want {
		t.Errorf("Value after prune = %d, want %d", got, want)
	}
	cs.Prune(-1)
	if got := cs.Values("item"); len(got) != 0 {
		t.Errorf("Values after prune(-1) = %v, want none", got)
	}
	if got, want := cs.Counters("item", ".", ""), "0"; got != want {
		t.Errorf("Counters without scope = %q, want %q", got, want)
	}
}

func TestCounterScopesResetSameDepth(t *testing.T) {
	cs := NewCounterScopes()
	cs.Reset("h2", 0, 1)
	cs.Increment("h2", 1, 1)
	cs.Increment("h2", 1, 1)
	cs.Reset("h2", 0, 1)
	if got, want := cs.Values("h2"), []int{0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}

func TestCounterScopesImplicitIncrement(t *testing.T) {
	cs := NewCounterScopes()
	if got := cs.Value("n"); got != 0 {
		t.Errorf("Value of unknown counter = %d, want 0", got)
	}
	cs.Increment("n", 5, 3)
	cs.Prune(3)
	cs.Increment("n", 1, 7)
	if got, want := cs.Value("n"), 6; got != want {
		t.Errorf("Value = %d, want %d", got, want)
	}
	// the implicit scope lives at the depth of the first increment
	cs.Prune(2)
	if got := cs.Value("n"); got != 0 {
		t.Errorf("Value after prune = %d, want 0", got)
	}
}

func TestCounterScopesIncrementInnermost(t *testing.T) {
	cs := NewCounterScopes()
	cs.Reset("sec", 0, 0)
	cs.Reset("sec", 10, 2)
	cs.Increment("sec", 1, 1)
	if got, want := cs.Values("sec"), []int{0, 11}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values = %v, want %v", got, want)
	}
}

func TestCounterScopesApply(t *testing.T) {
	cs := NewCounterScopes()
	cs.Apply(ParseCounterReset("a 5"), ParseCounterIncrement("a 2 b"), 0)
	if got, want := cs.Value("a"), 7; got != want {
		t.Errorf("a = %d, want %d (reset before increment)", got, want)
	}
	if got, want := cs.String(), "a[7@0] b[1@0]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
