// Package dom is an in-memory element tree with inline styles, mutation
// notifications and a write gate that can veto style changes.
package dom

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/yacobolo/uijenforce/internal/cssvalue"
)

// ErrVetoed is wrapped by style writes the document's gate rejected.
var ErrVetoed = errors.New("style write vetoed")

// MutationKind says what changed.
type MutationKind int

const (
	ChildAdded MutationKind = iota
	StyleChanged
	ClassChanged
	AttributeChanged
)

func (k MutationKind) String() string {
	switch k {
	case ChildAdded:
		return "child-added"
	case StyleChanged:
		return "style-changed"
	case ClassChanged:
		return "class-changed"
	case AttributeChanged:
		return "attribute-changed"
	}
	return fmt.Sprintf("MutationKind(%d)", int(k))
}

// Mutation is one change notification. For ChildAdded, Target is the new
// child.
type Mutation struct {
	Kind     MutationKind
	Target   *Element
	Property string
}

// Gate decides whether a style write may land.
type Gate interface {
	Permit(property, value string) error
}

// Declaration is one inline style entry.
type Declaration struct {
	Property string
	Value    string
}

// Element is a node of the tree.
type Element struct {
	doc      *Document
	tag      string
	attrs    map[string]string
	classes  []string
	style    []Declaration
	parent   *Element
	children []*Element
}

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.tag }

// ID returns the id attribute.
func (e *Element) ID() string { return e.attrs["id"] }

// Parent returns the parent element, nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element { return slices.Clone(e.children) }

// Classes returns a copy of the class list.
func (e *Element) Classes() []string { return slices.Clone(e.classes) }

// HasClass reports whether the element carries class c.
func (e *Element) HasClass(c string) bool {
	return slices.ContainsFunc(e.classes, func(have string) bool { return strings.EqualFold(have, c) })
}

// AddClass adds class c if missing and notifies observers.
func (e *Element) AddClass(c string) {
	if c == "" || e.HasClass(c) {
		return
	}
	e.classes = append(e.classes, c)
	e.doc.notify(Mutation{Kind: ClassChanged, Target: e})
}

// RemoveClass drops class c and notifies observers.
func (e *Element) RemoveClass(c string) {
	i := slices.IndexFunc(e.classes, func(have string) bool { return strings.EqualFold(have, c) })
	if i < 0 {
		return
	}
	e.classes = slices.Delete(e.classes, i, i+1)
	e.doc.notify(Mutation{Kind: ClassChanged, Target: e})
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// SetAttr sets an attribute. A class attribute replaces the class list. A
// style attribute is merged into the inline style one declaration at a
// time, each through the gate.
func (e *Element) SetAttr(name, value string) error {
	name = strings.ToLower(name)
	switch name {
	case "class":
		e.classes = strings.Fields(value)
		e.doc.notify(Mutation{Kind: ClassChanged, Target: e})
		return nil
	case "style":
		var errs []error
		for _, d := range ParseStyle(value) {
			errs = append(errs, e.SetStyle(d.Property, d.Value))
		}
		return errors.Join(errs...)
	}
	e.attrs[name] = value
	e.doc.notify(Mutation{Kind: AttributeChanged, Target: e, Property: name})
	return nil
}

// Style returns the inline value of property. A background or border
// shorthand answers for its color longhand.
func (e *Element) Style(property string) (string, bool) {
	property = strings.ToLower(property)
	short := map[string]string{"background-color": "background", "border-color": "border"}[property]
	for i := len(e.style) - 1; i >= 0; i-- {
		d := e.style[i]
		switch d.Property {
		case property:
			return d.Value, true
		case short:
			if short == "" {
				continue
			}
			span, ok := cssvalue.FindColor(d.Value)
			if !ok {
				return "", false
			}
			return d.Value[span.Start:span.End], true
		}
	}
	return "", false
}

// StyleText renders the inline style attribute.
func (e *Element) StyleText() string {
	parts := make([]string, len(e.style))
	for i, d := range e.style {
		parts[i] = d.Property + ": " + d.Value
	}
	return strings.Join(parts, "; ")
}

// SetStyle writes an inline declaration after consulting the gate. A
// vetoed write leaves the element untouched and returns an error wrapping
// ErrVetoed.
func (e *Element) SetStyle(property, value string) error {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)
	if gate := e.doc.gate; gate != nil {
		if err := gate.Permit(property, value); err != nil {
			return fmt.Errorf("%w: %s on %s: %w", ErrVetoed, property, e.Path(), err)
		}
	}

	i := slices.IndexFunc(e.style, func(d Declaration) bool { return d.Property == property })
	switch {
	case i >= 0 && e.style[i].Value == value:
		return nil
	case i >= 0:
		// Re-append so the declaration keeps overriding any shorthand.
		e.style = append(slices.Delete(e.style, i, i+1), Declaration{property, value})
	default:
		e.style = append(e.style, Declaration{property, value})
	}
	e.doc.notify(Mutation{Kind: StyleChanged, Target: e, Property: property})
	return nil
}

// AppendChild attaches child as the last child and notifies observers.
func (e *Element) AppendChild(child *Element) {
	if child.parent != nil {
		child.parent.children = slices.DeleteFunc(child.parent.children, func(c *Element) bool { return c == child })
	}
	child.parent = e
	e.children = append(e.children, child)
	e.doc.notify(Mutation{Kind: ChildAdded, Target: child})
}

// Connected reports whether e is attached under its document's root.
func (e *Element) Connected() bool {
	for cur := e; cur != nil; cur = cur.parent {
		if cur == e.doc.root {
			return true
		}
	}
	return false
}

// Identity returns the element as a selector sees it.
func (e *Element) Identity() cssvalue.Element {
	attrs := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		attrs[k] = v
	}
	return cssvalue.Element{Tag: e.tag, ID: e.ID(), Classes: e.Classes(), Attrs: attrs}
}

// Path describes the element by its ancestry, e.g. "body > nav > button.uij-btn".
func (e *Element) Path() string {
	var parts []string
	for cur := e; cur != nil && cur.tag != rootTag; cur = cur.parent {
		parts = append(parts, compact(cur))
	}
	slices.Reverse(parts)
	return strings.Join(parts, " > ")
}

func compact(e *Element) string {
	var b strings.Builder
	b.WriteString(e.tag)
	if id := e.ID(); id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range e.classes {
		b.WriteString("." + c)
	}
	return b.String()
}

// Descendants yields e and everything below it in document order.
func (e *Element) Descendants() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		e.walk(yield)
	}
}

func (e *Element) walk(yield func(*Element) bool) bool {
	if !yield(e) {
		return false
	}
	for _, c := range e.children {
		if !c.walk(yield) {
			return false
		}
	}
	return true
}
