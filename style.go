package csscounter

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// PseudoPosition names a generated-content pseudo-element.
type PseudoPosition string

const (
	// PseudoBefore is the ::before pseudo-element.
	PseudoBefore PseudoPosition = "before"
	// PseudoAfter is the ::after pseudo-element.
	PseudoAfter PseudoPosition = "after"
)

// Style maps CSS property names to their computed values.
type Style map[string]string

// Get returns the value of the property or the empty string if the property
// is not set.
func (s Style) Get(property string) string {
	if s == nil {
		return ""
	}
	return s[property]
}

// String returns the style as a sorted declaration list.
func (s Style) String() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k + ":" + s[k] + ";")
	}
	return sb.String()
}

// StyleResolver is the computed-style capability the materializer depends
// on. pseudo is empty for the element itself.
type StyleResolver interface {
	ComputedStyle(n *html.Node, pseudo PseudoPosition) Style
}

// StyleEngine builds a StyleResolver for an off-screen root that has been
// attached to a document. The root contains the stylesheet in a <style>
// element and the content in the scoping container.
type StyleEngine func(root *html.Node) (StyleResolver, error)

// inherited lists the properties that take the parent's value when they
// are not set on an element.
var inherited = map[string]bool{
	"color":           true,
	"direction":       true,
	"font-family":     true,
	"font-size":       true,
	"font-style":      true,
	"font-variant":    true,
	"font-weight":     true,
	"letter-spacing":  true,
	"line-height":     true,
	"quotes":          true,
	"text-align":      true,
	"text-indent":     true,
	"text-transform":  true,
	"visibility":      true,
	"white-space":     true,
	"word-spacing":    true,
	"list-style-type": true,
}
