package csscounter

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Defaults of a Materializer.
const (
	DefaultNamespace   = "wemd"
	DefaultContainerID = "wemd"
	DefaultMarkerTag   = "span"
)

// pseudoStyleKeys are copied from a pseudo-element onto its marker, in this
// order.
var pseudoStyleKeys = []string{
	"color",
	"background",
	"background-color",
	"font-family",
	"font-size",
	"font-style",
	"font-weight",
	"line-height",
	"letter-spacing",
	"text-transform",
	"text-decoration",
	"white-space",
	"padding",
	"margin",
	"border",
	"border-radius",
	"display",
	"vertical-align",
}

// Materializer turns counter-generated ::before and ::after content into
// real elements, for consumers of the HTML that ignore CSS generated
// content.
type Materializer struct {
	log         *zap.Logger
	namespace   string
	containerID string
	markerTag   string
	engine      StyleEngine
	engineSet   bool

	// host is shared by all calls, mu is held while a root is attached.
	host *html.Node
	mu   sync.Mutex
}

// Option configures a Materializer.
type Option func(*Materializer)

// WithLogger sets the logger. The default discards all messages.
func WithLogger(log *zap.Logger) Option {
	return func(m *Materializer) {
		if log != nil {
			m.log = log
		}
	}
}

// WithNamespace sets the namespace of the data-<namespace>-counter-generated
// marker attribute.
func WithNamespace(ns string) Option {
	return func(m *Materializer) { m.namespace = ns }
}

// WithContainerID sets the id of the element that wraps the HTML fragment
// while styles are resolved. Stylesheets usually scope their selectors with
// it, as in "#wemd h2::before".
func WithContainerID(id string) Option {
	return func(m *Materializer) { m.containerID = id }
}

// WithMarkerTag sets the element name of inserted markers.
func WithMarkerTag(tag string) Option {
	return func(m *Materializer) {
		if tag != "" {
			m.markerTag = tag
		}
	}
}

// WithStyleEngine replaces the built-in cascade. A nil engine disables
// materialization: the input is returned unchanged.
func WithStyleEngine(engine StyleEngine) Option {
	return func(m *Materializer) {
		m.engine = engine
		m.engineSet = true
	}
}

// WithHost makes every call attach its off-screen root to host, a node of
// a live document, instead of a private document. Calls of the same
// Materializer are serialized while their root is attached. Code outside
// the Materializer must not read or change host concurrently.
func WithHost(host *html.Node) Option {
	return func(m *Materializer) { m.host = host }
}

// New returns a Materializer configured by opts.
func New(opts ...Option) *Materializer {
	m := &Materializer{
		log:         zap.NewNop(),
		namespace:   DefaultNamespace,
		containerID: DefaultContainerID,
		markerTag:   DefaultMarkerTag,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.Named("counters")
	if !m.engineSet {
		m.engine = CascadeEngine(m.log)
	}
	return m
}

var defaultMaterializer = New()

// Materialize bakes counter pseudo content of stylesheet into fragment
// using the default settings.
func Materialize(fragment, stylesheet string) string {
	return defaultMaterializer.Materialize(fragment, stylesheet)
}

// Materialize returns fragment with a marker element for every ::before and
// ::after pseudo-element whose content uses counter() or counters(). The
// marker holds the resolved text and the visual properties of the
// pseudo-element as inline style. Whenever something goes wrong the
// fragment is returned unchanged.
func (m *Materializer) Materialize(fragment, stylesheet string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Warn("Counter materialization failed", zap.Any("panic", r))
			out = fragment
		}
	}()

	if fragment == "" || stylesheet == "" || !HasCounterFunction(stylesheet) || m.engine == nil {
		return fragment
	}
	if len(ExtractCounterPseudoRules(stylesheet)) == 0 {
		return fragment
	}

	root, container, err := newOffscreenRoot(fragment, stylesheet, m.containerID)
	if err != nil {
		m.log.Debug("Unable to build off-screen root", zap.Error(err))
		return fragment
	}

	detach, err := m.attach(root)
	if err != nil {
		m.log.Debug("Unable to attach off-screen root", zap.Error(err))
		return fragment
	}
	defer detach()

	styles, err := m.engine(root)
	if err != nil {
		m.log.Debug("Style engine reported problems", zap.Error(err))
	}
	if styles == nil {
		return fragment
	}

	w := &walker{
		styles:    styles,
		scopes:    NewCounterScopes(),
		markerTag: m.markerTag,
		attrKey:   markerAttribute(m.namespace),
	}
	w.walk(container, 0)

	out, err = innerHTML(container)
	if err != nil {
		m.log.Debug("Unable to serialize result", zap.Error(err))
		return fragment
	}
	m.log.Debug("Materialized counters", zap.Int("markers", w.markers), zap.Stringer("scopes", w.scopes))
	return out
}

// attach inserts root into the host document and returns the function that
// removes it again. A shared host stays locked until root is removed.
func (m *Materializer) attach(root *html.Node) (func(), error) {
	if m.host == nil {
		body, err := newHostDocument()
		if err != nil {
			return nil, err
		}
		body.AppendChild(root)
		return func() { body.RemoveChild(root) }, nil
	}
	m.mu.Lock()
	m.host.AppendChild(root)
	return func() {
		defer m.mu.Unlock()
		if root.Parent == m.host {
			m.host.RemoveChild(root)
		}
	}, nil
}

func markerAttribute(ns string) string {
	if ns == "" {
		return "data-counter-generated"
	}
	return "data-" + ns + "-counter-generated"
}

// walker carries the state of one materialization through the tree.
type walker struct {
	styles    StyleResolver
	scopes    *CounterScopes
	markerTag string
	attrKey   string
	markers   int
}

func (w *walker) walk(n *html.Node, depth int) {
	w.scopes.Prune(depth)
	style := w.styles.ComputedStyle(n, "")
	w.applyCounterOps(style, depth)

	// markers inserted below must not be visited
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		}
	}

	w.processPseudo(n, PseudoBefore, depth)
	for _, c := range children {
		w.walk(c, depth+1)
	}
	w.processPseudo(n, PseudoAfter, depth)
}

func (w *walker) applyCounterOps(style Style, depth int) {
	w.scopes.Apply(
		ParseCounterReset(style.Get("counter-reset")),
		ParseCounterIncrement(style.Get("counter-increment")),
		depth,
	)
}

func (w *walker) processPseudo(n *html.Node, pseudo PseudoPosition, depth int) {
	style := w.styles.ComputedStyle(n, pseudo)
	w.applyCounterOps(style, depth)

	template := style.Get("content")
	if !HasCounterFunction(template) {
		return
	}
	text := ResolveContent(template, w.scopes)
	if text == "" {
		return
	}

	marker := &html.Node{
		Type:     html.ElementNode,
		Data:     w.markerTag,
		DataAtom: atom.Lookup([]byte(w.markerTag)),
		Attr:     []html.Attribute{{Key: w.attrKey, Val: string(pseudo)}},
	}
	if inline := copyPseudoStyles(style); inline != "" {
		marker.Attr = append(marker.Attr, html.Attribute{Key: "style", Val: inline})
	}
	marker.AppendChild(&html.Node{Type: html.TextNode, Data: text})

	if pseudo == PseudoBefore {
		n.InsertBefore(marker, n.FirstChild)
	} else {
		n.AppendChild(marker)
	}
	w.markers++
}

// copyPseudoStyles returns the inline style for a marker. Empty values and
// the keywords initial, normal and none are left out.
func copyPseudoStyles(style Style) string {
	var sb strings.Builder
	for _, key := range pseudoStyleKeys {
		value := strings.TrimSpace(style.Get(key))
		switch value {
		case "", "initial", "normal", "none":
			continue
		}
		sb.WriteString(key + ":" + value + ";")
	}
	return sb.String()
}
