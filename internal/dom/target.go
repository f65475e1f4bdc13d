package dom

import (
	"fmt"

	"github.com/yacobolo/uijenforce/internal/cssvalue"
	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// Target adapts an element to the enforcer.
type Target struct {
	el *Element
}

var (
	_ enforcer.Target     = Target{}
	_ enforcer.Identified = Target{}
)

// NewTarget wraps el.
func NewTarget(el *Element) Target {
	return Target{el: el}
}

// Element returns the wrapped element.
func (t Target) Element() *Element {
	return t.el
}

func (t Target) DeclaredValue(property string) (string, bool) {
	return t.el.Style(property)
}

func (t Target) SetDeclaredValue(property, value string) error {
	if err := t.el.SetStyle(property, value); err != nil {
		return fmt.Errorf("%w: %w", enforcer.ErrMutationRefused, err)
	}
	return nil
}

func (t Target) Location() enforcer.Location {
	return enforcer.Location{Kind: enforcer.LocationElement, Element: t.el.Path(), File: t.el.doc.name}
}

func (t Target) Identities() []cssvalue.Element {
	return []cssvalue.Element{t.el.Identity()}
}

// Targets yields every element under root in document order. The document
// node itself is skipped.
func Targets(root *Element) enforcer.Corpus {
	return func(yield func(enforcer.Target, error) bool) {
		for el := range root.Descendants() {
			if el.tag == rootTag {
				continue
			}
			if !yield(NewTarget(el), nil) {
				return
			}
		}
	}
}
