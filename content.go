package csscounter

import (
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// TokenKind is the type of a ContentToken.
type TokenKind int

const (
	// TokenString is a string literal.
	TokenString TokenKind = iota
	// TokenCounter is a counter(name[, style]) call.
	TokenCounter
	// TokenCounters is a counters(name, separator[, style]) call.
	TokenCounters
)

// ContentToken is a part of a content value that contributes text.
type ContentToken struct {
	Kind      TokenKind
	Text      string // decoded literal, TokenString only
	Name      string
	Separator string
	Style     string
}

// TokenizeContent splits a content value into string literals and counter
// function calls. Everything else (keywords, other functions, whitespace
// between tokens) is dropped.
func TokenizeContent(template string) []ContentToken {
	var toks []ContentToken
	l := css.NewLexer(parse.NewInputString(template))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return toks
		case css.StringToken:
			toks = append(toks, ContentToken{Kind: TokenString, Text: decodeString(string(data))})
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			if name != "counter" && name != "counters" {
				continue
			}
			args, ok := functionArgs(l)
			if !ok {
				return toks
			}
			tok := ContentToken{Kind: TokenCounter}
			if name == "counters" {
				tok.Kind = TokenCounters
				tok.Separator = "."
			}
			if len(args) > 0 {
				tok.Name = args[0]
			}
			if tok.Kind == TokenCounter {
				if len(args) > 1 {
					tok.Style = args[1]
				}
			} else {
				if len(args) > 1 {
					tok.Separator = args[1]
				}
				if len(args) > 2 {
					tok.Style = args[2]
				}
			}
			toks = append(toks, tok)
		}
	}
}

// functionArgs reads the arguments of a function up to the first closing
// parenthesis. Nested calls are not supported. Empty arguments are dropped
// and quoted arguments are decoded. ok is false if the input ends before
// the closing parenthesis.
func functionArgs(l *css.Lexer) (args []string, ok bool) {
	var cur strings.Builder
	flush := func() {
		arg := strings.TrimSpace(cur.String())
		cur.Reset()
		if arg == "" {
			return
		}
		if isQuoted(arg) {
			arg = decodeString(arg)
		}
		args = append(args, arg)
	}
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return nil, false
		case css.RightParenthesisToken:
			flush()
			return args, true
		case css.CommaToken:
			flush()
		case css.WhitespaceToken, css.CommentToken:
			cur.WriteByte(' ')
		default:
			cur.Write(data)
		}
	}
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0]
}

// decodeString removes the quotes of a CSS string literal and resolves the
// escapes \A (line break, swallowing one following white space), \", \'
// and \\. Other escapes are kept as written.
func decodeString(s string) string {
	if !isQuoted(s) {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		switch next := s[i+1]; next {
		case 'A', 'a':
			sb.WriteByte('\n')
			i++
			if i+1 < len(s) && isCSSSpace(s[i+1]) {
				i++
			}
		case '"', '\'', '\\':
			sb.WriteByte(next)
			i++
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func isCSSSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// ResolveContent evaluates a content value with the current counter
// values. The text of all tokens is concatenated without separators.
func ResolveContent(template string, scopes *CounterScopes) string {
	var sb strings.Builder
	for _, tok := range TokenizeContent(template) {
		switch tok.Kind {
		case TokenString:
			sb.WriteString(tok.Text)
		case TokenCounter:
			if tok.Name == "" {
				sb.WriteString("0")
				continue
			}
			sb.WriteString(FormatCounter(scopes.Value(tok.Name), tok.Style))
		case TokenCounters:
			if tok.Name == "" {
				sb.WriteString("0")
				continue
			}
			sb.WriteString(scopes.Counters(tok.Name, tok.Separator, tok.Style))
		}
	}
	return sb.String()
}
