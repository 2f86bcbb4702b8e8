package csscounter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/speedata/css/scanner"
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// tokenizeCSSString returns the token stream of the CSS text without
// comments. Tokens carry the values the block parser expects: strings
// without quotes and with escapes resolved, hashes without "#", functions
// and at-keywords without "(" and "@", percentages without "%". Malformed
// strings and urls are kept as far as they go. An error is returned only
// if the input cannot be read; the tokens read so far are returned with it.
func tokenizeCSSString(str string) (tokenstream, error) {
	var toks tokenstream
	l := css.NewLexer(parse.NewInputString(str))
	line, col := 1, 1
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return toks, fmt.Errorf("css: cannot tokenize at line %d col %d: %w", line, col, err)
			}
			return toks, nil
		}
		raw := string(data)
		if tok := newToken(tt, raw); tok != nil {
			tok.Line, tok.Column = line, col
			toks = append(toks, tok)
		}
		if n := strings.Count(raw, "\n"); n > 0 {
			line += n
			col = utf8.RuneCountInString(raw[strings.LastIndex(raw, "\n"):])
		} else {
			col += utf8.RuneCountInString(raw)
		}
	}
}

// newToken converts a lexer token. Comments and empty tokens yield nil.
func newToken(tt css.TokenType, raw string) *scanner.Token {
	tok := &scanner.Token{Type: scanner.Delim, Value: raw}
	switch tt {
	case css.CommentToken, css.EmptyToken:
		return nil
	case css.IdentToken, css.CustomPropertyNameToken:
		tok.Type = scanner.Ident
	case css.FunctionToken:
		tok.Type = scanner.Function
		tok.Value = strings.TrimSuffix(raw, "(")
	case css.AtKeywordToken:
		tok.Type = scanner.AtKeyword
		tok.Value = strings.TrimPrefix(raw, "@")
	case css.HashToken:
		tok.Type = scanner.Hash
		tok.Value = strings.TrimPrefix(raw, "#")
	case css.StringToken, css.BadStringToken:
		tok.Type = scanner.String
		tok.Value = unescapeString(raw)
	case css.URLToken, css.BadURLToken:
		tok.Type = scanner.URI
		tok.Value = urlValue(raw)
	case css.NumberToken:
		tok.Type = scanner.Number
	case css.PercentageToken:
		tok.Type = scanner.Percentage
		tok.Value = strings.TrimSuffix(raw, "%")
	case css.DimensionToken:
		tok.Type = scanner.Dimension
	case css.UnicodeRangeToken:
		tok.Type = scanner.UnicodeRange
	case css.IncludeMatchToken:
		tok.Type = scanner.Includes
	case css.DashMatchToken:
		tok.Type = scanner.DashMatch
	case css.PrefixMatchToken:
		tok.Type = scanner.PrefixMatch
	case css.SuffixMatchToken:
		tok.Type = scanner.SuffixMatch
	case css.SubstringMatchToken:
		tok.Type = scanner.SubstringMatch
	case css.WhitespaceToken:
		tok.Type = scanner.S
	case css.CDOToken:
		tok.Type = scanner.CDO
	case css.CDCToken:
		tok.Type = scanner.CDC
	}
	return tok
}

// unescapeString returns the value of a quoted string token.
func unescapeString(raw string) string {
	if raw == "" {
		return raw
	}
	if q := raw[0]; q == '"' || q == '\'' {
		raw = raw[1:]
		if n := len(raw); n > 0 && raw[n-1] == q && !escapedAt(raw, n-1) {
			raw = raw[:n-1]
		}
	}
	if !strings.Contains(raw, `\`) {
		return raw
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i == len(raw) {
			break
		}
		switch c = raw[i]; {
		case c == '\n' || c == '\f':
			// line continuation
		case c == '\r':
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case isHexDigit(c):
			j := i
			for j < len(raw) && j-i < 6 && isHexDigit(raw[j]) {
				j++
			}
			sb.WriteRune(hexRune(raw[i:j]))
			if j < len(raw) && isCSSSpace(raw[j]) {
				if raw[j] == '\r' && j+1 < len(raw) && raw[j+1] == '\n' {
					j++
				}
				j++
			}
			i = j - 1
		default:
			// bytes of a multi-byte rune after the first are copied by
			// the loop
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// escapedAt reports whether the byte at i is preceded by an odd number of
// backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for i > 0 && s[i-1] == '\\' {
		n++
		i--
	}
	return n%2 == 1
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func hexRune(hex string) rune {
	var r rune
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		switch {
		case c >= 'a':
			c = c - 'a' + 10
		case c >= 'A':
			c = c - 'A' + 10
		default:
			c -= '0'
		}
		r = r<<4 | rune(c)
	}
	if r == 0 || r > utf8.MaxRune || (0xD800 <= r && r <= 0xDFFF) {
		return utf8.RuneError
	}
	return r
}

// urlValue returns the address of a url() token.
func urlValue(raw string) string {
	v := raw
	if i := strings.IndexByte(v, '('); i >= 0 {
		v = v[i+1:]
	}
	v = strings.TrimSpace(strings.TrimSuffix(v, ")"))
	if len(v) > 0 && (v[0] == '"' || v[0] == '\'') {
		return unescapeString(v)
	}
	return v
}

// stringValue serializes a declaration value back to CSS text. Whitespace
// runs collapse to a single space.
func stringValue(toks tokenstream) string {
	var sb strings.Builder
	for _, tok := range trimSpace(toks) {
		switch tok.Type {
		case scanner.S:
			sb.WriteString(" ")
		case scanner.String:
			sb.WriteString(quoteString(tok.Value))
		case scanner.Function:
			sb.WriteString(tok.Value + "(")
		case scanner.Hash:
			// selectors carry the "#" after fixupComponentValues
			if !strings.HasPrefix(tok.Value, "#") {
				sb.WriteString("#")
			}
			sb.WriteString(tok.Value)
		case scanner.URI:
			sb.WriteString("url(" + quoteString(tok.Value) + ")")
		case scanner.AtKeyword:
			sb.WriteString("@" + tok.Value)
		case scanner.Ident, scanner.Delim, scanner.Number, scanner.Dimension:
			sb.WriteString(tok.Value)
		default:
			// percentages and match operators
			if err := tok.Emit(&sb); err != nil {
				sb.WriteString(tok.Value)
			}
		}
	}
	return sb.String()
}

// quoteString returns s as a double quoted CSS string literal. s holds the
// decoded value: backslashes and double quotes are escaped, line breaks
// become \A followed by a space.
func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', '"':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			sb.WriteString(`\A `)
		case '\n', '\f':
			sb.WriteString(`\A `)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
