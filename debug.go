package csscounter

import (
	"fmt"
	"strings"
)

func indent(s string) string {
	ret := []string{}
	for _, line := range strings.Split(s, "\n") {
		ret = append(ret, "    "+line)
	}
	return strings.Join(ret, "\n")
}

func (b sBlock) String() string {
	ret := []string{}
	var firstline string
	if b.name != "" {
		firstline = fmt.Sprintf("@%s ", b.name)
	}
	firstline = firstline + b.componentValues.String() + " {"
	ret = append(ret, firstline)
	for _, v := range b.rules {
		ret = append(ret, "    "+v.key.String()+":"+v.value.String()+";")
	}
	for _, v := range b.childAtRules {
		ret = append(ret, indent(v.String()))
	}
	for _, v := range b.blocks {
		ret = append(ret, indent(v.String()))
	}
	ret = append(ret, "}")
	return strings.Join(ret, "\n")
}

func (t tokenstream) String() string {
	return stringValue(t)
}

func (r compiledRule) String() string {
	var decls []string
	for _, d := range r.decls {
		s := d.property + ":" + d.value
		if d.important {
			s += " !important"
		}
		decls = append(decls, s)
	}
	return fmt.Sprintf("%s %v {%s}", r.selector, r.specificity, strings.Join(decls, ";"))
}
