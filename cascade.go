package csscounter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

var (
	importantPattern     = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)
	pseudoElementPattern = regexp.MustCompile(`(?i)::?(before|after)$`)
)

type declaration struct {
	property  string
	value     string
	important bool
}

type compiledRule struct {
	selector    string
	sel         cascadia.Sel
	pseudo      PseudoPosition
	specificity cascadia.Specificity
	order       int
	decls       []declaration
}

type styleKey struct {
	node   *html.Node
	pseudo PseudoPosition
}

// Resolver computes styles of elements and their ::before and ::after
// pseudo-elements from a set of stylesheets. A Resolver caches its results
// and must not be used after the DOM has been changed in a way that
// affects selector matching, except for inserted nodes that are never
// queried.
type Resolver struct {
	log   *zap.Logger
	rules []compiledRule
	cache map[styleKey]Style
}

// NewResolver compiles the stylesheets read so far. Selectors that cannot
// be compiled are skipped; the returned error lists all of them and the
// resolver is usable nonetheless.
func (c *CSS) NewResolver() (*Resolver, error) {
	log := c.log
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		log:   log,
		cache: make(map[styleKey]Style),
	}
	var errs error
	for _, sheet := range c.stylesheet {
		for _, block := range sheet.blocks {
			decls := compileDeclarations(block.rules)
			if len(decls) == 0 {
				continue
			}
			for _, selector := range splitSelectorList(stringValue(block.componentValues)) {
				rule, err := compileSelector(selector)
				if err != nil {
					errs = multierr.Append(errs, err)
					continue
				}
				rule.order = len(r.rules)
				rule.decls = decls
				r.rules = append(r.rules, rule)
				r.log.Debug("Compiled rule", zap.Stringer("rule", rule))
			}
		}
	}
	if errs != nil {
		r.log.Debug("Skipped selectors", zap.Error(errs))
	}
	return r, errs
}

func compileDeclarations(rules []qrule) []declaration {
	decls := make([]declaration, 0, len(rules))
	for _, q := range rules {
		property := strings.TrimSpace(stringValue(q.key))
		if !strings.HasPrefix(property, "--") {
			property = strings.ToLower(property)
		}
		if property == "" {
			continue
		}
		value := stringValue(q.value)
		important := false
		if loc := importantPattern.FindStringIndex(value); loc != nil {
			value = strings.TrimSpace(value[:loc[0]])
			important = true
		}
		decls = append(decls, declaration{property: property, value: value, important: important})
	}
	return decls
}

// compileSelector separates a trailing ::before or ::after from the
// selector and compiles the remainder.
func compileSelector(selector string) (compiledRule, error) {
	rule := compiledRule{selector: selector}
	subject := selector
	if loc := pseudoElementPattern.FindStringSubmatchIndex(selector); loc != nil {
		rule.pseudo = PseudoPosition(strings.ToLower(selector[loc[2]:loc[3]]))
		subject = selector[:loc[0]]
		if subject == "" || strings.ContainsAny(subject[len(subject)-1:], " \t\n\r\f>+~") {
			subject += "*"
		}
	}
	sel, err := cascadia.Parse(strings.TrimSpace(subject))
	if err != nil {
		return rule, fmt.Errorf("selector %q: %w", selector, err)
	}
	rule.sel = sel
	rule.specificity = sel.Specificity()
	if rule.pseudo != "" {
		rule.specificity[2]++
	}
	return rule, nil
}

// splitSelectorList splits a selector group at commas that are not nested
// in parentheses, brackets or strings.
func splitSelectorList(s string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			if part := strings.TrimSpace(s[start:i]); part != "" {
				parts = append(parts, part)
			}
			start = i + 1
		}
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		parts = append(parts, part)
	}
	return parts
}

type candidate struct {
	declaration
	inline      bool
	specificity cascadia.Specificity
	order       int
}

func (a candidate) less(b candidate) bool {
	if a.important != b.important {
		return !a.important
	}
	if a.inline != b.inline {
		return !a.inline
	}
	if a.specificity != b.specificity {
		return a.specificity.Less(b.specificity)
	}
	return a.order < b.order
}

// ComputedStyle returns the style of the element n or, if pseudo is not
// empty, the style of its pseudo-element. Non-element nodes have no style.
func (r *Resolver) ComputedStyle(n *html.Node, pseudo PseudoPosition) Style {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	key := styleKey{node: n, pseudo: pseudo}
	if s, ok := r.cache[key]; ok {
		return s
	}

	var cands []candidate
	for _, rule := range r.rules {
		if rule.pseudo != pseudo || !rule.sel.Match(n) {
			continue
		}
		for _, d := range rule.decls {
			cands = append(cands, candidate{declaration: d, specificity: rule.specificity, order: rule.order})
		}
	}
	if pseudo == "" {
		cands = append(cands, r.inlineDeclarations(n)...)
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].less(cands[j]) })

	cascaded := make(map[string]string, len(cands))
	for _, c := range cands {
		cascaded[c.property] = c.value
	}

	var parent Style
	if pseudo != "" {
		parent = r.ComputedStyle(n, "")
	} else if n.Parent != nil {
		parent = r.ComputedStyle(n.Parent, "")
	}

	style := make(Style, len(cascaded))
	for property, value := range cascaded {
		switch strings.ToLower(value) {
		case "inherit":
			if pv := parent.Get(property); pv != "" {
				style[property] = pv
			}
		case "initial":
		case "unset":
			if pv := parent.Get(property); pv != "" && inherited[property] {
				style[property] = pv
			}
		default:
			style[property] = value
		}
	}
	for property := range inherited {
		if _, ok := cascaded[property]; ok {
			continue
		}
		if pv := parent.Get(property); pv != "" {
			style[property] = pv
		}
	}
	r.cache[key] = style
	return style
}

func (r *Resolver) inlineDeclarations(n *html.Node) []candidate {
	var text string
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			text = a.Val
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	rules, err := parseDeclarations(text)
	if err != nil {
		r.log.Debug("Ignoring style attribute", zap.String("style", text), zap.Error(err))
		return nil
	}
	decls := compileDeclarations(rules)
	cands := make([]candidate, 0, len(decls))
	for i, d := range decls {
		cands = append(cands, candidate{declaration: d, inline: true, order: i})
	}
	return cands
}

// CascadeEngine returns the built-in StyleEngine. It reads every <style>
// element below the root and resolves styles with a Resolver.
func CascadeEngine(log *zap.Logger) StyleEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return func(root *html.Node) (StyleResolver, error) {
		c := NewCSSParserWithLogger(log)
		var errs error
		goquery.NewDocumentFromNode(root).Find("style").Each(func(_ int, sel *goquery.Selection) {
			if err := c.AddCSSText(sel.Text()); err != nil {
				errs = multierr.Append(errs, err)
			}
		})
		r, err := c.NewResolver()
		return r, multierr.Append(errs, err)
	}
}
