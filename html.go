package csscounter

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// offscreenStyle keeps the off-screen root out of sight when the host
// document is rendered.
const offscreenStyle = "position:absolute;left:-9999px;top:-9999px;pointer-events:none;opacity:0"

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

// newOffscreenRoot returns <div><style>stylesheet</style><section
// id="containerID">fragment</section></div> and the section.
func newOffscreenRoot(fragment, stylesheet, containerID string) (root, container *html.Node, err error) {
	root = newElement(atom.Div, html.Attribute{Key: "style", Val: offscreenStyle})
	style := newElement(atom.Style)
	style.AppendChild(&html.Node{Type: html.TextNode, Data: stylesheet})
	root.AppendChild(style)

	container = newElement(atom.Section, html.Attribute{Key: "id", Val: containerID})
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return nil, nil, fmt.Errorf("parse html fragment: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	root.AppendChild(container)
	return root, container, nil
}

// newHostDocument returns the body of an empty document.
func newHostDocument() (*html.Node, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<!DOCTYPE html><html><head></head><body></body></html>"))
	if err != nil {
		return nil, err
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, fmt.Errorf("host document has no body")
	}
	return body.Get(0), nil
}

// innerHTML serializes the children of n.
func innerHTML(n *html.Node) (string, error) {
	return goquery.NewDocumentFromNode(n).Html()
}
