package csscounter

import (
	"strings"

	"github.com/speedata/css/scanner"
	"go.uber.org/zap"
)

// tokenstream is a list of CSS tokens
type tokenstream []*scanner.Token

type qrule struct {
	key   tokenstream
	value tokenstream
}

// sBlock is a block with a selector
type sBlock struct {
	name            string      // only set if this is an at-rule
	componentValues tokenstream // the "selector"
	childAtRules    []*sBlock   // the block's at-rules, if any
	blocks          []*sBlock   // the at-rule's blocks, if any
	rules           []qrule     // the key-value pairs
}

// CSS is the main structure that contains cascading style sheet information.
// Multiple stylesheets can be added to the CSS structure and then turned
// into a Resolver for a DOM.
type CSS struct {
	log        *zap.Logger
	stylesheet []sBlock
}

// Return the position of the matching closing brace "}"
func findClosingBrace(toks tokenstream) int {
	level := 1
	for i, t := range toks {
		if t.Type == scanner.Delim {
			switch t.Value {
			case "{":
				level++
			case "}":
				level--
				if level == 0 {
					return i + 1
				}
			}
		}
	}
	return len(toks)
}

// fixupComponentValues changes DELIM[.] + IDENT[foo] to IDENT[.foo]
func fixupComponentValues(toks tokenstream) tokenstream {
	toks = trimSpace(toks)
	var combineNext bool
	for i := 0; i < len(toks)-1; i++ {
		combineNext = false
		if toks[i].Type == scanner.Delim && toks[i].Value == "." && toks[i+1].Type == scanner.Ident {
			toks[i+1].Value = "." + toks[i+1].Value
			combineNext = true
		} else if toks[i].Type == scanner.Delim && toks[i].Value == ":" && toks[i+1].Type == scanner.Ident {
			toks[i+1].Value = ":" + toks[i+1].Value
			combineNext = true
		} else if toks[i].Type == scanner.Hash && !strings.HasPrefix(toks[i].Value, "#") {
			toks[i].Value = "#" + toks[i].Value
		}

		if combineNext {
			toks = append(toks[:i], toks[i+1:]...)
		}
	}
	if n := len(toks); n > 0 && toks[n-1].Type == scanner.Hash && !strings.HasPrefix(toks[n-1].Value, "#") {
		toks[n-1].Value = "#" + toks[n-1].Value
	}
	return toks
}

func trimSpace(toks tokenstream) tokenstream {
	i := 0
	for i < len(toks) && toks[i].Type == scanner.S {
		i++
	}
	toks = toks[i:]
	j := len(toks)
	for j > 0 && toks[j-1].Type == scanner.S {
		j--
	}
	return toks[:j]
}

// consumeBlock get the contents of a block. The name (in case of an at-rule)
// and the selector will be added later on
func consumeBlock(toks tokenstream, inblock bool) sBlock {
	// This is the whole block between the opening { and closing }
	if len(toks) <= 1 {
		return sBlock{}
	}
	b := sBlock{}
	i := 0
	// we might start with whitespace, skip it
	for i < len(toks) && toks[i].Type == scanner.S {
		i++
	}
	start := i
	colon := -1

	for i < len(toks) {
		// There are only two cases: a key-value rule or something with
		// curly braces
		t := toks[i]
		if t.Type != scanner.Delim {
			i++
			continue
		}
		switch t.Value {
		case ":":
			if inblock && colon < 0 {
				colon = i
			}
		case ";":
			if colon > start {
				b.rules = append(b.rules, qrule{
					key:   trimSpace(toks[start:colon]),
					value: trimSpace(toks[colon+1 : i]),
				})
			}
			colon = -1
			start = i + 1
		case "{":
			// l is the length of the sub block including the closing brace
			l := findClosingBrace(toks[i+1:])
			// subblock is without the enclosing curly braces
			subblock := toks[i+1 : i+l]
			head := trimSpace(toks[start:i])
			if len(head) > 0 {
				starttok := head[0]
				isAtRule := starttok.Type == scanner.AtKeyword
				startsWithConditional := isAtRule && (starttok.Value == "media" || starttok.Value == "supports")
				nb := consumeBlock(subblock, !startsWithConditional)
				if isAtRule {
					nb.name = starttok.Value
					nb.componentValues = fixupComponentValues(head[1:])
					b.childAtRules = append(b.childAtRules, &nb)
				} else {
					nb.componentValues = fixupComponentValues(head)
					b.blocks = append(b.blocks, &nb)
				}
			}
			i = i + l
			start = i + 1
			colon = -1
		}
		i++
	}
	if colon > start && start < len(toks) {
		b.rules = append(b.rules, qrule{
			key:   trimSpace(toks[start:colon]),
			value: trimSpace(toks[colon+1:]),
		})
	}
	return b
}

// NewCSSParser returns a new CSS object
func NewCSSParser() *CSS {
	return &CSS{log: zap.NewNop()}
}

// NewCSSParserWithLogger returns a new CSS object that reports skipped
// constructs to the given logger.
func NewCSSParserWithLogger(log *zap.Logger) *CSS {
	if log == nil {
		log = zap.NewNop()
	}
	return &CSS{log: log.Named("css")}
}

// AddCSSText parses CSS text and appends the rules to the previously read
// rules. On a read error the rules before the error are kept and the error
// is returned.
func (c *CSS) AddCSSText(fragment string) error {
	toks, err := tokenizeCSSString(fragment)
	if err != nil {
		c.log.Debug("Stylesheet read partially", zap.Int("tokens", len(toks)), zap.Error(err))
	}
	block := consumeBlock(toks, false)
	for _, atrule := range block.childAtRules {
		c.log.Debug("Ignoring at-rule", zap.Stringer("rule", atrule))
	}
	c.stylesheet = append(c.stylesheet, block)
	return err
}

// parseDeclarations reads the contents of a style attribute.
func parseDeclarations(text string) ([]qrule, error) {
	toks, err := tokenizeCSSString(text)
	if err != nil {
		return nil, err
	}
	return consumeBlock(toks, true).rules, nil
}
