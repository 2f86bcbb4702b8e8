package csscounter

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractCounterPseudoRules(t *testing.T) {
	css := "#x h2::before{content:'Part' counter(c);} #x h3:before{content:counters(d,'.');} #x h4::before{content:'No';}"
	want := []CounterPseudoRule{
		{Selector: "#x h2", Pseudo: PseudoBefore},
		{Selector: "#x h3", Pseudo: PseudoBefore},
	}
	if got := ExtractCounterPseudoRules(css); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractCounterPseudoRules() = %v, want %v", got, want)
	}
}

func TestExtractCounterPseudoRulesSelectorList(t *testing.T) {
	css := `
		#wemd h2, #wemd h3 ::AFTER { color: red; CONTENT: Counter(n) }
		@media print { #wemd h4::before { content: counter(m); } }
		#wemd p::before { content: "x"; }
	`
	want := []CounterPseudoRule{
		{Selector: "#wemd h2", Pseudo: PseudoAfter},
		{Selector: "#wemd h3", Pseudo: PseudoAfter},
		{Selector: "#wemd h4", Pseudo: PseudoBefore},
	}
	got := ExtractCounterPseudoRules(css)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractCounterPseudoRules() = %v, want %v", got, want)
	}
	if got := ExtractCounterPseudoRules(""); got != nil {
		t.Errorf("ExtractCounterPseudoRules(\"\") = %v, want nil", got)
	}
}

func TestStripCounterPseudoRules(t *testing.T) {
	css := `
      #wemd h2::before { content: 'Part' counter(counterh1); color: #333; }
      #wemd h2 { color: #333; }
      #wemd h3::before { content: "纯文本"; color: #666; }
      #wemd h4:after { content: counters(x, ", "); }
    `
	stripped := StripCounterPseudoRules(css)
	for _, gone := range []string{"counter(counterh1)", "counters(x"} {
		if strings.Contains(stripped, gone) {
			t.Errorf("stripped css still contains %q:\n%s", gone, stripped)
		}
	}
	for _, kept := range []string{
		"#wemd h2 { color: #333; }",
		`#wemd h3::before { content: "纯文本"; color: #666; }`,
	} {
		if !strings.Contains(stripped, kept) {
			t.Errorf("stripped css lost %q:\n%s", kept, stripped)
		}
	}
}

func TestStripCounterPseudoRulesUnchanged(t *testing.T) {
	css := "a::before { content: \"x\" }\nb { color: red }\n"
	if got := StripCounterPseudoRules(css); got != css {
		t.Errorf("StripCounterPseudoRules() = %q, want %q", got, css)
	}
}

func TestHasCounterFunction(t *testing.T) {
	testdata := []struct {
		in   string
		want bool
	}{
		{`counter(a)`, true},
		{`"x" COUNTERS (a, ".")`, true},
		{`"counter"`, false},
		{`mycounter(a)`, false},
		{`none`, false},
	}
	for _, td := range testdata {
		if got := HasCounterFunction(td.in); got != td.want {
			t.Errorf("HasCounterFunction(%q) = %t, want %t", td.in, got, td.want)
		}
	}
}
