package csscounter

import (
	"regexp"
	"strings"
)

// CounterPseudoRule identifies a ::before or ::after rule whose content uses
// counter() or counters().
type CounterPseudoRule struct {
	Selector string
	Pseudo   PseudoPosition
}

var (
	// pseudoRulePattern matches a rule for a ::before or ::after
	// pseudo-element whose body has no nested braces.
	pseudoRulePattern      = regexp.MustCompile(`(?i)([^{}]+?):{1,2}(before|after)\s*\{([^{}]*)\}`)
	counterContentPattern  = regexp.MustCompile(`(?i)content\s*:[^;{}]*\bcounters?\s*\(`)
	counterFunctionPattern = regexp.MustCompile(`(?i)\bcounters?\s*\(`)
)

// HasCounterFunction reports whether text contains a counter( or counters(
// call.
func HasCounterFunction(text string) bool {
	return counterFunctionPattern.MatchString(text)
}

// ExtractCounterPseudoRules returns one rule for every selector of every
// ::before or ::after rule in css whose content declaration uses a counter
// function, in source order. The scan is textual: an enclosing block such as
// @media is not taken into account.
func ExtractCounterPseudoRules(css string) []CounterPseudoRule {
	if css == "" {
		return nil
	}
	var rules []CounterPseudoRule
	for _, m := range pseudoRulePattern.FindAllStringSubmatch(css, -1) {
		selectors, pseudo, body := strings.TrimSpace(m[1]), strings.ToLower(m[2]), m[3]
		if selectors == "" || !counterContentPattern.MatchString(body) {
			continue
		}
		pos := PseudoBefore
		if pseudo == "after" {
			pos = PseudoAfter
		}
		for _, sel := range strings.Split(selectors, ",") {
			if sel = strings.TrimSpace(sel); sel != "" {
				rules = append(rules, CounterPseudoRule{Selector: sel, Pseudo: pos})
			}
		}
	}
	return rules
}

// StripCounterPseudoRules removes the rules ExtractCounterPseudoRules would
// report from css. Everything else is left untouched.
func StripCounterPseudoRules(css string) string {
	if css == "" {
		return css
	}
	return pseudoRulePattern.ReplaceAllStringFunc(css, func(rule string) string {
		m := pseudoRulePattern.FindStringSubmatch(rule)
		if m != nil && counterContentPattern.MatchString(m[3]) {
			return ""
		}
		return rule
	})
}
