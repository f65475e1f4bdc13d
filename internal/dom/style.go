package dom

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseStyle splits an inline style attribute into declarations. Malformed
// entries (no colon, empty name) are dropped; an !important flag is kept
// off the value.
func ParseStyle(s string) []Declaration {
	var (
		out   []Declaration
		name  string
		value strings.Builder
		colon bool
		depth int
	)

	flush := func() {
		v := strings.TrimSpace(value.String())
		v = strings.TrimSpace(strings.TrimSuffix(v, "!important"))
		if name != "" && colon && v != "" {
			out = append(out, Declaration{Property: strings.ToLower(name), Value: v})
		}
		name, colon, depth = "", false, 0
		value.Reset()
	}

	l := css.NewLexer(parse.NewInputString(s))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			flush()
			return out
		}

		switch {
		case tt == css.CommentToken:
		case tt == css.SemicolonToken && depth == 0:
			flush()
		case !colon && tt == css.IdentToken && name == "":
			name = string(data)
		case !colon && tt == css.CustomPropertyNameToken && name == "":
			name = string(data)
		case !colon && tt == css.ColonToken:
			colon = true
		case !colon:
			// Stray token before the colon; the entry is malformed.
			if tt != css.WhitespaceToken {
				name = ""
			}
		case tt == css.WhitespaceToken:
			if value.Len() > 0 {
				value.WriteByte(' ')
			}
		default:
			switch tt {
			case css.FunctionToken, css.LeftParenthesisToken:
				depth++
			case css.RightParenthesisToken:
				if depth > 0 {
					depth--
				}
			}
			value.Write(data)
		}
	}
}
