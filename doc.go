// Package csscounter turns CSS counters into text.
//
// Stylesheets often number headings and sections with ::before and ::after
// rules whose content uses counter() or counters(). Consumers that do not
// evaluate generated content drop those numbers. Materialize resolves the
// counters the way a browser does (nested scopes by tree depth, counters()
// chains, roman and alphabetic styles) and inserts the resulting text as
// marker elements into the HTML.
//
// The styles of elements and pseudo-elements come from a StyleResolver.
// The built-in one is a small cascade over the stylesheet (selector
// matching, specificity, !important, inline styles and inheritance); any
// other implementation can be plugged in with WithStyleEngine.
//
// ExtractCounterPseudoRules and StripCounterPseudoRules work on the CSS
// text alone, for callers that want to detect or remove counter rules.
package csscounter
