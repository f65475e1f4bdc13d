package source

import (
	"bytes"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/uijenforce/internal/cssvalue"
)

// stylesheetExtensions are scanned with real rule context. Every other
// file gets the proximity heuristic.
var stylesheetExtensions = map[string]bool{
	".css":  true,
	".scss": true,
	".less": true,
}

// buttonWindow is how many lines, trigger included, a button-looking line
// marks as button context in markup and script files.
const buttonWindow = 10

// buttonTriggers mark a line of markup or script as button-related.
var buttonTriggers = []string{"button", ".btn", ".uij-btn"}

// ruleContexts assigns to each line the elements selected by the rule
// block that encloses it. Nested selectors are resolved against the
// parent's elements; at-rule blocks inherit them.
func ruleContexts(content string, lineCount int) [][]cssvalue.Element {
	out := make([][]cssvalue.Element, lineCount)

	var (
		stack   [][]cssvalue.Element
		prelude strings.Builder
		line    int
	)

	l := css.NewLexer(parse.NewInputString(content))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return out
		}
		// The block around the last token of a line decides its context.
		if len(stack) > 0 && line < lineCount && tt != css.WhitespaceToken && tt != css.CommentToken {
			out[line] = stack[len(stack)-1]
		}

		switch tt {
		case css.LeftBraceToken:
			var parent []cssvalue.Element
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, selectorContext(prelude.String(), parent))
			prelude.Reset()
		case css.RightBraceToken:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			prelude.Reset()
		case css.SemicolonToken:
			prelude.Reset()
		case css.CommentToken:
		default:
			prelude.Write(data)
		}

		line += bytes.Count(data, []byte{'\n'})
	}
}

func selectorContext(prelude string, parent []cssvalue.Element) []cssvalue.Element {
	prelude = strings.TrimSpace(prelude)
	if prelude == "" || strings.HasPrefix(prelude, "@") {
		return parent
	}
	elems, err := cssvalue.ResolveNested(prelude, parent)
	if err != nil || len(elems) == 0 {
		return parent
	}
	return elems
}

// proximityContexts applies the button heuristic: a line mentioning a
// button marks itself and the following lines as styling a button. Primary
// markers on the trigger line carry over so primary buttons stay exempt.
func proximityContexts(lines []string, primaryMarkers []string) [][]cssvalue.Element {
	out := make([][]cssvalue.Element, len(lines))
	for i, line := range lines {
		lower := strings.ToLower(line)
		if !containsAny(lower, buttonTriggers) {
			continue
		}
		el := cssvalue.Element{Tag: "button"}
		for _, m := range primaryMarkers {
			if strings.Contains(lower, strings.ToLower(m)) {
				el.Classes = append(el.Classes, m)
			}
		}
		for j := i; j < len(lines) && j < i+buttonWindow; j++ {
			out[j] = []cssvalue.Element{el}
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
