package csscounter

import (
	"strconv"
	"strings"
)

// CounterOp is one counter name with its reset value or increment step.
type CounterOp struct {
	Name  string
	Value int
}

// counterNoop lists the whole-value keywords that leave all counters alone.
var counterNoop = map[string]bool{
	"none":         true,
	"normal":       true,
	"initial":      true,
	"unset":        true,
	"inherit":      true,
	"revert":       true,
	"revert-layer": true,
}

// ParseCounterReset parses a counter-reset value such as "chapter section 2"
// into its operations in order of appearance. A name without a value resets
// to 0.
func ParseCounterReset(value string) []CounterOp {
	return parseCounterOps(value, 0)
}

// ParseCounterIncrement parses a counter-increment value. A name without a
// value increments by 1.
func ParseCounterIncrement(value string) []CounterOp {
	return parseCounterOps(value, 1)
}

// parseCounterOps reads "name [integer]" pairs. Tokens that are neither a
// counter name nor the number following one are skipped.
func parseCounterOps(value string, dflt int) []CounterOp {
	value = strings.TrimSpace(value)
	if value == "" || counterNoop[strings.ToLower(value)] {
		return nil
	}

	var ops []CounterOp
	parts := strings.Fields(value)
	for i := 0; i < len(parts); i++ {
		name := parts[i]
		if !isCounterName(name) {
			continue
		}
		op := CounterOp{Name: name, Value: dflt}
		if i+1 < len(parts) && isInteger(parts[i+1]) {
			if v, err := strconv.Atoi(parts[i+1]); err == nil {
				op.Value = v
			}
			i++
		}
		ops = append(ops, op)
	}
	return ops
}

// isCounterName reports whether s looks like a CSS identifier that can name
// a counter.
func isCounterName(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	c := s[0]
	return c == '_' || c == '-' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// isInteger reports whether s has the shape of a signed integer. Values
// that overflow still count as integers; the caller falls back to the
// default for them.
func isInteger(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
