package cssvalue

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// IsZeroValue reports whether a declared value disables the property:
// empty, none or 0.
func IsZeroValue(v string) bool {
	switch strings.ToLower(StripImportant(v)) {
	case "", "none", "0":
		return true
	}
	return false
}

// Span is a half-open byte range inside a value string.
type Span struct {
	Start, End int
}

// FindColor locates the first color token inside a (possibly shorthand)
// value such as "1px solid #ff0000" or "url(a.png) rgb(0 0 0 / 0.5)".
func FindColor(value string) (Span, bool) {
	l := css.NewLexer(parse.NewInputString(value))
	offset := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return Span{}, false
		}
		start := offset
		offset += len(data)

		switch tt {
		case css.HashToken:
			if _, ok := ParseColor(string(data)); ok {
				return Span{start, offset}, true
			}
		case css.IdentToken:
			if IsColorName(string(data)) {
				return Span{start, offset}, true
			}
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			end := skipFunction(l, &offset)
			switch name {
			case "rgb", "rgba", "hsl", "hsla":
				if _, ok := ParseColor(value[start:end]); ok {
					return Span{start, end}, true
				}
			}
		}
	}
}

// FindColors locates every color token of a value, in order:
// "red blue" yields two spans.
func FindColors(value string) []Span {
	var out []Span
	for offset := 0; offset < len(value); {
		span, ok := FindColor(value[offset:])
		if !ok {
			break
		}
		out = append(out, Span{Start: offset + span.Start, End: offset + span.End})
		offset += span.End
	}
	return out
}

// skipFunction consumes tokens up to and including the parenthesis that
// closes an already opened function, returning the end offset.
func skipFunction(l *css.Lexer, offset *int) int {
	depth := 1
	for depth > 0 {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		*offset += len(data)
		switch tt {
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		}
	}
	return *offset
}
