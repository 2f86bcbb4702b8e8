package csscounter

import (
	"fmt"
	"sort"
	"strings"
)

// CounterScope is the binding of a counter at one depth of the tree.
type CounterScope struct {
	Depth int
	Value int
}

// CounterScopes holds the active scopes of every counter during a tree
// walk. The scopes of a name are ordered by ascending depth, the last one
// is the innermost. The zero value is not usable, use NewCounterScopes.
type CounterScopes struct {
	scopes map[string][]CounterScope
}

// NewCounterScopes returns an empty scope store.
func NewCounterScopes() *CounterScopes {
	return &CounterScopes{scopes: make(map[string][]CounterScope)}
}

// Prune drops every scope deeper than depth. Names without scopes are
// removed.
func (cs *CounterScopes) Prune(depth int) {
	for name, scopes := range cs.scopes {
		i := len(scopes)
		for i > 0 && scopes[i-1].Depth > depth {
			i--
		}
		if i == 0 {
			delete(cs.scopes, name)
			continue
		}
		cs.scopes[name] = scopes[:i]
	}
}

// Reset sets the counter to value at depth. An existing scope at exactly
// that depth is overwritten, otherwise a new innermost scope is opened.
func (cs *CounterScopes) Reset(name string, value, depth int) {
	scopes := cs.scopes[name]
	for i := range scopes {
		if scopes[i].Depth == depth {
			scopes[i].Value = value
			return
		}
	}
	cs.scopes[name] = append(scopes, CounterScope{Depth: depth, Value: value})
}

// Increment adds step to the innermost scope of the counter, whatever its
// depth. A counter without a scope is created at depth with the value 0
// before the increment.
func (cs *CounterScopes) Increment(name string, step, depth int) {
	scopes := cs.scopes[name]
	if len(scopes) == 0 {
		cs.scopes[name] = []CounterScope{{Depth: depth, Value: step}}
		return
	}
	scopes[len(scopes)-1].Value += step
}

// Apply performs all resets and then all increments at depth.
func (cs *CounterScopes) Apply(resets, increments []CounterOp, depth int) {
	for _, op := range resets {
		cs.Reset(op.Name, op.Value, depth)
	}
	for _, op := range increments {
		cs.Increment(op.Name, op.Value, depth)
	}
}

// Value returns the value of the innermost scope or 0.
func (cs *CounterScopes) Value(name string) int {
	scopes := cs.scopes[name]
	if len(scopes) == 0 {
		return 0
	}
	return scopes[len(scopes)-1].Value
}

// Values returns the values of all scopes of the counter, outermost first.
func (cs *CounterScopes) Values(name string) []int {
	scopes := cs.scopes[name]
	values := make([]int, len(scopes))
	for i, s := range scopes {
		values[i] = s.Value
	}
	return values
}

// Counters formats all values of the counter, outermost first, joined by
// separator. A counter without scopes yields "0".
func (cs *CounterScopes) Counters(name, separator, style string) string {
	values := cs.Values(name)
	if len(values) == 0 {
		return "0"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatCounter(v, style)
	}
	return strings.Join(parts, separator)
}

func (cs *CounterScopes) String() string {
	names := make([]string, 0, len(cs.scopes))
	for name := range cs.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	ret := make([]string, 0, len(names))
	for _, name := range names {
		var levels []string
		for _, s := range cs.scopes[name] {
			levels = append(levels, fmt.Sprintf("%d@%d", s.Value, s.Depth))
		}
		ret = append(ret, name+"["+strings.Join(levels, " ")+"]")
	}
	return strings.Join(ret, " ")
}
