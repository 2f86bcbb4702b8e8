package csscounter

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/html"
)

func resolverFor(t *testing.T, stylesheet, body string) (*Resolver, *goquery.Document) {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>" + body + "</body></html>"))
	if err != nil {
		t.Fatal(err)
	}
	c := NewCSSParserWithLogger(zaptest.NewLogger(t))
	if err := c.AddCSSText(stylesheet); err != nil {
		t.Fatal(err)
	}
	r, err := c.NewResolver()
	if err != nil {
		t.Fatal(err)
	}
	return r, doc
}

func nodeOf(t *testing.T, doc *goquery.Document, selector string) *html.Node {
	t.Helper()
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		t.Fatalf("no element matches %q", selector)
	}
	return sel.Get(0)
}

func TestResolverPseudoElements(t *testing.T) {
	r, doc := resolverFor(t, `
		#wemd h2::before { content: "A" counter(a); counter-increment: a; }
		#wemd h2:after { content: counter(b); }
		#wemd h2 { counter-reset: b 3; }
	`, `<section id="wemd"><h2>x</h2></section>`)
	h2 := nodeOf(t, doc, "h2")

	if got, want := r.ComputedStyle(h2, "").Get("counter-reset"), "b 3"; got != want {
		t.Errorf("counter-reset = %q, want %q", got, want)
	}
	if got := r.ComputedStyle(h2, "").Get("content"); got != "" {
		t.Errorf("element content = %q, want empty", got)
	}
	before := r.ComputedStyle(h2, PseudoBefore)
	if got, want := before.Get("counter-increment"), "a"; got != want {
		t.Errorf("::before counter-increment = %q, want %q", got, want)
	}
	if got := before.Get("content"); !strings.Contains(got, "counter(a)") {
		t.Errorf("::before content = %q, want counter(a)", got)
	}
	if got, want := r.ComputedStyle(h2, PseudoAfter).Get("content"), "counter(b)"; got != want {
		t.Errorf("::after content = %q, want %q", got, want)
	}
}

func TestResolverPrecedence(t *testing.T) {
	r, doc := resolverFor(t, `
		h2::before { counter-increment: c 999; color: red !important; }
		h2::before { counter-increment: c; color: blue; }
		#x::before { background-color: green; }
		h2::before { background-color: yellow; }
		p { color: black; }
		p.k { color: gray; }
	`, `<h2 id="x">x</h2><p class="k" style="color: olive">p</p>`)

	before := r.ComputedStyle(nodeOf(t, doc, "h2"), PseudoBefore)
	if got, want := before.Get("counter-increment"), "c"; got != want {
		t.Errorf("counter-increment = %q, want %q (last declaration wins)", got, want)
	}
	if got, want := before.Get("color"), "red"; got != want {
		t.Errorf("color = %q, want %q (important wins)", got, want)
	}
	if got, want := before.Get("background-color"), "green"; got != want {
		t.Errorf("background-color = %q, want %q (id wins)", got, want)
	}
	if got, want := r.ComputedStyle(nodeOf(t, doc, "p"), "").Get("color"), "olive"; got != want {
		t.Errorf("p color = %q, want %q (inline style wins)", got, want)
	}
}

func TestResolverInheritance(t *testing.T) {
	r, doc := resolverFor(t, `
		section { color: navy; counter-reset: s; font-size: 12px; }
		h2::before { font-size: inherit; padding: 2px; }
		h3 { color: initial; }
	`, `<section><h2>x</h2><h3>y</h3></section>`)

	h2 := nodeOf(t, doc, "h2")
	if got, want := r.ComputedStyle(h2, "").Get("color"), "navy"; got != want {
		t.Errorf("inherited color = %q, want %q", got, want)
	}
	if got := r.ComputedStyle(h2, "").Get("counter-reset"); got != "" {
		t.Errorf("counter-reset must not inherit, got %q", got)
	}
	before := r.ComputedStyle(h2, PseudoBefore)
	if got, want := before.Get("color"), "navy"; got != want {
		t.Errorf("::before color = %q, want %q", got, want)
	}
	if got, want := before.Get("font-size"), "12px"; got != want {
		t.Errorf("::before font-size = %q, want %q", got, want)
	}
	if got := r.ComputedStyle(nodeOf(t, doc, "h3"), "").Get("color"); got != "" {
		t.Errorf("color: initial = %q, want empty", got)
	}
}

func TestResolverSelectorErrors(t *testing.T) {
	c := NewCSSParser()
	if err := c.AddCSSText(`h2[title { color: red } h2::before, h3::before { content: counter(a) }`); err != nil {
		t.Fatal(err)
	}
	r, err := c.NewResolver()
	if err == nil {
		t.Error("expected an error for the broken selector")
	}
	if got, want := len(r.rules), 2; got != want {
		t.Errorf("len(rules) = %d, want %d", got, want)
	}
}

func TestCompileSelector(t *testing.T) {
	testdata := []struct {
		selector string
		pseudo   PseudoPosition
		spec     [3]int
	}{
		{"h2", "", [3]int{0, 0, 1}},
		{"#wemd h2::before", PseudoBefore, [3]int{1, 0, 2}},
		{"#wemd h3:before", PseudoBefore, [3]int{1, 0, 2}},
		{".a::AFTER", PseudoAfter, [3]int{0, 1, 1}},
		{"::before", PseudoBefore, [3]int{0, 0, 1}},
	}
	for _, td := range testdata {
		rule, err := compileSelector(td.selector)
		if err != nil {
			t.Errorf("compileSelector(%q): %v", td.selector, err)
			continue
		}
		if rule.pseudo != td.pseudo {
			t.Errorf("compileSelector(%q).pseudo = %q, want %q", td.selector, rule.pseudo, td.pseudo)
		}
		if [3]int(rule.specificity) != td.spec {
			t.Errorf("compileSelector(%q).specificity = %v, want %v", td.selector, rule.specificity, td.spec)
		}
	}
}

func TestSplitSelectorList(t *testing.T) {
	got := splitSelectorList(`h2, a[title="x,y"], :is(h3, h4)::before ,`)
	want := []string{"h2", `a[title="x,y"]`, ":is(h3, h4)::before"}
	if len(got) != len(want) {
		t.Fatalf("splitSelectorList = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitSelectorList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
