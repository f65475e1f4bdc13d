package source

import (
	"strings"
	"unicode"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/uijenforce/internal/cssvalue"
)

// declaration is one `name: value` pair found on a line. Start and End
// delimit the value (without quotes or !important) in the line.
type declaration struct {
	Name  string
	Value string
	Start int
	End   int
}

// extractDeclarations finds the style declarations on one source line. It
// understands stylesheet syntax, inline style attributes, JS style objects
// (`backgroundColor: 'red'`) and JS style assignments
// (`el.style.backgroundColor = 'red'`).
func extractDeclarations(line string) []declaration {
	return scanDeclarations(line, 0)
}

const (
	seekName = iota
	seekColon
	inValue
	inAssignment
)

type candidate struct {
	name       string
	quoted     bool
	assignable bool // follows `style.`
	start, end int
}

type token struct {
	tt   css.TokenType
	data string
}

func (t token) is(tt css.TokenType, data string) bool {
	return t.tt == tt && t.data == data
}

type valueState struct {
	start   int
	depth   int
	strings int
	others  int
}

func scanDeclarations(text string, base int) []declaration {
	var (
		out    []declaration
		offset int
		state  = seekName
		cand   candidate
		val    valueState
		// The two most recent tokens other than whitespace and comments.
		prev [2]token
	)

	emit := func(end int) {
		if d, ok := makeDeclaration(text, cand.name, val.start, end, base); ok {
			out = append(out, d)
		}
		state = seekName
	}
	// A quoted string that turned out not to be a property name may hold
	// declarations itself, as in style="color: red".
	flushString := func() {
		if cand.quoted && cand.end-cand.start >= 2 {
			out = append(out, scanDeclarations(text[cand.start+1:cand.end-1], base+cand.start+1)...)
		}
	}

	l := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			switch state {
			case inValue:
				emit(offset)
			case seekColon:
				flushString()
			}
			return out
		}
		start := offset
		offset += len(data)

		before := prev
		if tt != css.WhitespaceToken && tt != css.CommentToken {
			prev = [2]token{{tt, string(data)}, prev[0]}
		}

		if state == seekColon {
			switch tt {
			case css.WhitespaceToken, css.CommentToken:
				continue
			case css.ColonToken:
				state = inValue
				val = valueState{start: offset}
				continue
			case css.DelimToken:
				if cand.assignable && string(data) == "=" {
					state = inAssignment
					continue
				}
			}
			flushString()
			state = seekName
		}

		if state == inAssignment {
			switch tt {
			case css.WhitespaceToken, css.CommentToken:
				continue
			case css.StringToken:
				// A string assigned to a style property is its value.
				if d, ok := makeDeclaration(text, cand.name, start, offset, base); ok {
					out = append(out, d)
				}
				state = seekName
				continue
			}
			// `==`, or a computed value.
			state = seekName
		}

		switch state {
		case seekName:
			switch tt {
			case css.IdentToken, css.CustomPropertyNameToken:
				cand = candidate{
					name:       string(data),
					assignable: before[0].is(css.DelimToken, ".") && before[1].is(css.IdentToken, "style"),
					start:      start,
					end:        offset,
				}
				state = seekColon
			case css.StringToken:
				cand = candidate{name: unquote(string(data)), quoted: true, start: start, end: offset}
				state = seekColon
			}

		case inValue:
			switch tt {
			case css.SemicolonToken, css.RightBraceToken:
				emit(start)
			case css.LeftBraceToken:
				// `a:hover {` is a selector, not a declaration.
				state = seekName
			case css.CommaToken:
				// In a JS object literal a quoted value ends at the comma.
				if val.depth == 0 && val.strings == 1 && val.others == 0 {
					emit(start)
				}
			case css.FunctionToken, css.LeftParenthesisToken:
				val.depth++
				val.others++
			case css.RightParenthesisToken:
				if val.depth > 0 {
					val.depth--
				}
				val.others++
			case css.WhitespaceToken, css.CommentToken:
			case css.StringToken:
				val.strings++
			default:
				val.others++
			}
		}
	}
}

func makeDeclaration(text, name string, start, end, base int) (declaration, bool) {
	raw := text[start:end]
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return declaration{}, false
	}
	s := start + strings.Index(raw, trimmed)
	e := s + len(trimmed)

	if v := cssvalue.StripImportant(trimmed); v != trimmed {
		if v == "" {
			return declaration{}, false
		}
		e = s + len(v)
	}

	v := text[s:e]
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		s++
		e--
	}

	return declaration{
		Name:  propertyName(name),
		Value: text[s:e],
		Start: base + s,
		End:   base + e,
	}, true
}

// propertyName maps JS style keys to CSS names: backgroundColor becomes
// background-color.
func propertyName(name string) string {
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// shorthands maps a longhand color property to the shorthand that can
// carry it.
var shorthands = map[string]string{
	"background-color": "background",
	"border-color":     "border",
}

// lookup returns the declaration that governs property on a line. The
// last declaration wins. A background or border shorthand contributes its
// color token.
func lookup(decls []declaration, property string) (declaration, bool) {
	short := shorthands[property]
	for i := len(decls) - 1; i >= 0; i-- {
		d := decls[i]
		switch d.Name {
		case property:
			return d, true
		case short:
			if short == "" {
				continue
			}
			span, ok := cssvalue.FindColor(d.Value)
			if !ok {
				return declaration{}, false
			}
			return declaration{
				Name:  property,
				Value: d.Value[span.Start:span.End],
				Start: d.Start + span.Start,
				End:   d.Start + span.End,
			}, true
		}
	}
	return declaration{}, false
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
