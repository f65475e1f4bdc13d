package dom

import (
	"errors"
	"fmt"
	stdhtml "html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// ParseHTML builds a document from markup. The parser is forgiving: an end
// tag with no open match is ignored and unclosed elements are closed at
// end of input.
func ParseHTML(r io.Reader) (*Document, error) {
	doc := NewDocument()
	stack := []*Element{doc.root}
	var (
		current *Element
		attrErr []error
	)

	l := html.NewLexer(parse.NewInput(r))
	for {
		tt, _ := l.Next()
		switch tt {
		case html.ErrorToken:
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to parse html: %w", err)
			}
			return doc, errors.Join(attrErr...)

		case html.StartTagToken:
			current = doc.CreateElement(string(l.Text()))
			stack[len(stack)-1].AppendChild(current)

		case html.AttributeToken:
			if current == nil {
				continue
			}
			if err := current.SetAttr(string(l.Text()), attrValue(l.AttrVal())); err != nil {
				attrErr = append(attrErr, err)
			}

		case html.StartTagCloseToken:
			if current != nil && !voidElements[current.tag] {
				stack = append(stack, current)
			}
			current = nil

		case html.StartTagVoidToken:
			current = nil

		case html.EndTagToken:
			tag := strings.ToLower(string(l.Text()))
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].tag == tag {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

func attrValue(raw []byte) string {
	v := string(raw)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return stdhtml.UnescapeString(v)
}
