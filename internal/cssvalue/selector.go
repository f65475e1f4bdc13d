package cssvalue

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Element is the identity of a styled element as far as selectors care:
// its tag, id, classes and attributes.
type Element struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   map[string]string
}

// HasClass reports whether the element carries class c (case-insensitive).
func (e Element) HasClass(c string) bool {
	for _, have := range e.Classes {
		if strings.EqualFold(have, c) {
			return true
		}
	}
	return false
}

// Attr returns an attribute value, case-insensitive on the name.
func (e Element) Attr(name string) (string, bool) {
	for k, v := range e.Attrs {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// String renders the element the way a compound selector would.
func (e Element) String() string {
	var b strings.Builder
	b.WriteString(e.Tag)
	if e.ID != "" {
		b.WriteString("#" + e.ID)
	}
	for _, c := range e.Classes {
		b.WriteString("." + c)
	}
	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == "id" || k == "class" || k == "style" {
			continue
		}
		fmt.Fprintf(&b, "[%s=%q]", k, e.Attrs[k])
	}
	if b.Len() == 0 {
		return "*"
	}
	return b.String()
}

// AttrCond is an attribute condition of a compound selector.
type AttrCond struct {
	Name     string
	Value    string
	HasValue bool
}

// Matcher is a compiled compound selector: tag, .class, #id and [attr]
// conditions that must all hold.
type Matcher struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   []AttrCond

	text string
}

// Matches reports whether e satisfies every condition of m.
func (m Matcher) Matches(e Element) bool {
	if m.Tag != "" && !strings.EqualFold(m.Tag, e.Tag) {
		return false
	}
	if m.ID != "" && !strings.EqualFold(m.ID, e.ID) {
		return false
	}
	for _, c := range m.Classes {
		if !e.HasClass(c) {
			return false
		}
	}
	for _, cond := range m.Attrs {
		v, ok := e.Attr(cond.Name)
		if !ok {
			return false
		}
		if cond.HasValue && !strings.EqualFold(v, cond.Value) {
			return false
		}
	}
	return true
}

func (m Matcher) String() string {
	return m.text
}

func (m Matcher) empty() bool {
	return m.Tag == "" && m.ID == "" && len(m.Classes) == 0 && len(m.Attrs) == 0
}

func (m Matcher) element() Element {
	e := Element{Tag: m.Tag, ID: m.ID, Classes: append([]string(nil), m.Classes...)}
	for _, cond := range m.Attrs {
		if e.Attrs == nil {
			e.Attrs = make(map[string]string)
		}
		e.Attrs[cond.Name] = cond.Value
	}
	return e
}

// ParseMatcher compiles a single compound selector such as
// `button.uij-btn[role="button"]`. Combinators and selector lists are
// rejected.
func ParseMatcher(selector string) (Matcher, error) {
	list, err := parseSelectors(selector)
	if err != nil {
		return Matcher{}, err
	}
	if len(list) != 1 || len(list[0]) != 1 {
		return Matcher{}, fmt.Errorf("selector %q: only a single compound selector is supported", selector)
	}
	m := list[0][0]
	if m.empty() {
		return Matcher{}, fmt.Errorf("selector %q: matches every element", selector)
	}
	m.text = strings.TrimSpace(selector)
	return m, nil
}

// ParseSelectorList returns, for each complex selector of a rule prelude,
// the element its last compound describes. `.nav a.nav-item:hover, button`
// yields a.nav-item and button. Pseudo-classes are ignored.
func ParseSelectorList(prelude string) ([]Element, error) {
	list, err := parseSelectors(prelude)
	if err != nil {
		return nil, err
	}
	out := make([]Element, 0, len(list))
	for _, compounds := range list {
		last := compounds[len(compounds)-1]
		if last.empty() {
			continue
		}
		out = append(out, last.element())
	}
	return out, nil
}

// ResolveNested resolves the prelude of a nested rule against the elements
// its enclosing rule selects. A leading & stands for each parent:
// `&.primary` refines it, `&:hover` is the parent itself, `&-primary`
// extends its last class and `& .icon` selects a descendant. Selectors
// without & select descendants.
func ResolveNested(prelude string, parents []Element) ([]Element, error) {
	var out []Element
	for _, sel := range splitSelectorList(prelude) {
		elems, err := resolveNested(strings.TrimSpace(sel), parents)
		if err != nil {
			return nil, err
		}
		out = append(out, elems...)
	}
	return out, nil
}

func resolveNested(sel string, parents []Element) ([]Element, error) {
	rest, ok := strings.CutPrefix(sel, "&")
	if !ok {
		return ParseSelectorList(sel)
	}
	if len(parents) == 0 {
		return nil, fmt.Errorf("selector %q: & outside of a rule", sel)
	}

	n := 0
	for n < len(rest) && isNameByte(rest[n]) {
		n++
	}
	suffix, rest := rest[:n], rest[n:]

	if rest != "" && strings.ContainsRune(" \t\r\n>+~", rune(rest[0])) {
		return ParseSelectorList(rest)
	}

	var attached Matcher
	if rest != "" {
		list, err := parseSelectors(rest)
		if err != nil {
			return nil, err
		}
		compounds := list[0]
		if len(compounds) > 1 {
			last := compounds[len(compounds)-1]
			return []Element{last.element()}, nil
		}
		attached = compounds[0]
	}

	out := make([]Element, 0, len(parents))
	for _, p := range parents {
		e, err := p.extend(suffix)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", sel, err)
		}
		out = append(out, e.refine(attached))
	}
	return out, nil
}

// extend appends a suffix to the element's last class, or to its tag when
// it has none: `.uij-btn` with `-primary` becomes `.uij-btn-primary`.
func (e Element) extend(suffix string) (Element, error) {
	if suffix == "" {
		return e, nil
	}
	switch {
	case len(e.Classes) > 0:
		classes := slices.Clone(e.Classes)
		classes[len(classes)-1] += suffix
		e.Classes = classes
	case e.Tag != "":
		e.Tag += suffix
	default:
		return e, fmt.Errorf("cannot append %q to %s", suffix, e)
	}
	return e, nil
}

// refine returns a copy of e that also satisfies m.
func (e Element) refine(m Matcher) Element {
	out := Element{Tag: e.Tag, ID: e.ID, Classes: slices.Clone(e.Classes)}
	if m.Tag != "" {
		out.Tag = m.Tag
	}
	if m.ID != "" {
		out.ID = m.ID
	}
	out.Classes = append(out.Classes, m.Classes...)
	if len(e.Attrs) > 0 || len(m.Attrs) > 0 {
		out.Attrs = maps.Clone(e.Attrs)
		if out.Attrs == nil {
			out.Attrs = make(map[string]string, len(m.Attrs))
		}
		for _, cond := range m.Attrs {
			out.Attrs[cond.Name] = cond.Value
		}
	}
	return out
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// splitSelectorList splits a prelude on the commas that separate its
// selectors, ignoring commas inside parentheses, brackets and strings.
func splitSelectorList(prelude string) []string {
	var (
		out   []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(prelude); i++ {
		c := prelude[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ',' && depth == 0:
			out = append(out, prelude[start:i])
			start = i + 1
		}
	}
	return append(out, prelude[start:])
}

func parseSelectors(text string) ([][]Matcher, error) {
	l := css.NewLexer(parse.NewInputString(text))

	var (
		list      [][]Matcher
		compounds []Matcher
		cur       Matcher
		started   bool
		descend   bool
	)

	// begin opens a new compound when a combinator separated it from the
	// previous one.
	begin := func() {
		if descend && started {
			compounds = append(compounds, cur)
			cur = Matcher{}
		}
		descend = false
		started = true
	}
	finish := func() error {
		if !started {
			return fmt.Errorf("selector %q: empty selector", text)
		}
		list = append(list, append(compounds, cur))
		compounds, cur, started, descend = nil, Matcher{}, false, false
		return nil
	}

	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := finish(); err != nil {
				return nil, err
			}
			return list, nil

		case css.WhitespaceToken, css.CommentToken:
			descend = true

		case css.DelimToken:
			switch string(data) {
			case ">", "+", "~":
				descend = true
			case "*":
				begin()
			case ".":
				next, name := l.Next()
				if next != css.IdentToken {
					return nil, fmt.Errorf("selector %q: expected class name after '.'", text)
				}
				begin()
				cur.Classes = append(cur.Classes, string(name))
			default:
				return nil, fmt.Errorf("selector %q: unexpected %q", text, data)
			}

		case css.IdentToken:
			begin()
			cur.Tag = strings.ToLower(string(data))

		case css.HashToken:
			begin()
			cur.ID = strings.TrimPrefix(string(data), "#")

		case css.LeftBracketToken:
			cond, err := parseAttrCond(l, text)
			if err != nil {
				return nil, err
			}
			begin()
			cur.Attrs = append(cur.Attrs, cond)

		case css.ColonToken:
			begin()
			if err := skipPseudo(l, text); err != nil {
				return nil, err
			}

		case css.ColumnToken:
			return nil, fmt.Errorf("selector %q: namespaces are not supported", text)

		case css.CommaToken:
			if err := finish(); err != nil {
				return nil, err
			}

		default:
			return nil, fmt.Errorf("selector %q: unexpected %q", text, data)
		}
	}
}

func parseAttrCond(l *css.Lexer, text string) (AttrCond, error) {
	var cond AttrCond
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return cond, fmt.Errorf("selector %q: unterminated attribute selector", text)
		case css.RightBracketToken:
			if cond.Name == "" {
				return cond, fmt.Errorf("selector %q: empty attribute selector", text)
			}
			return cond, nil
		case css.WhitespaceToken:
		case css.IdentToken:
			if cond.Name == "" {
				cond.Name = strings.ToLower(string(data))
			} else if cond.HasValue {
				cond.Value = string(data)
			} else {
				return cond, fmt.Errorf("selector %q: unexpected %q in attribute selector", text, data)
			}
		case css.StringToken:
			cond.Value = unquote(string(data))
		case css.DelimToken:
			if string(data) != "=" {
				return cond, fmt.Errorf("selector %q: unexpected %q in attribute selector", text, data)
			}
			cond.HasValue = true
		case css.IncludeMatchToken, css.DashMatchToken, css.PrefixMatchToken, css.SuffixMatchToken, css.SubstringMatchToken:
			// Partial matches degrade to a presence test.
			cond.HasValue = false
			for tt != css.RightBracketToken && tt != css.ErrorToken {
				tt, _ = l.Next()
			}
			return cond, nil
		default:
			return cond, fmt.Errorf("selector %q: unexpected %q in attribute selector", text, data)
		}
	}
}

func skipPseudo(l *css.Lexer, text string) error {
	tt, _ := l.Next()
	if tt == css.ColonToken {
		tt, _ = l.Next()
	}
	switch tt {
	case css.IdentToken:
		return nil
	case css.FunctionToken:
		offset := 0
		skipFunction(l, &offset)
		return nil
	}
	return fmt.Errorf("selector %q: malformed pseudo-class", text)
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
