package dom

import (
	"iter"
	"strings"
)

const rootTag = "#document"

// Document owns an element tree, its observers and its write gate.
//
// Notifications are delivered synchronously and in order. A mutation made
// by an observer while a notification is being delivered is queued and
// delivered after the current one, so observers never overlap.
type Document struct {
	name      string
	root      *Element
	gate      Gate
	observers map[int]func(Mutation)
	order     []int
	nextID    int

	delivering bool
	pending    []Mutation
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	d := &Document{observers: make(map[int]func(Mutation))}
	d.root = d.newElement(rootTag)
	return d
}

// Name returns the source the document was loaded from, if any.
func (d *Document) Name() string {
	return d.name
}

// SetName records the source the document was loaded from. Element
// locations carry it.
func (d *Document) SetName(name string) {
	d.name = name
}

// Root returns the document node. It has no styles of its own.
func (d *Document) Root() *Element {
	return d.root
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return d.newElement(strings.ToLower(tag))
}

func (d *Document) newElement(tag string) *Element {
	return &Element{doc: d, tag: tag, attrs: make(map[string]string)}
}

// SetGate installs the write policy consulted by every SetStyle. A nil
// gate permits everything.
func (d *Document) SetGate(g Gate) {
	d.gate = g
}

// Observe registers fn for every mutation and returns a function that
// removes it.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	id := d.nextID
	d.nextID++
	d.observers[id] = fn
	d.order = append(d.order, id)
	return func() {
		delete(d.observers, id)
	}
}

func (d *Document) notify(m Mutation) {
	if len(d.observers) == 0 {
		return
	}
	if d.delivering {
		d.pending = append(d.pending, m)
		return
	}

	d.delivering = true
	defer func() { d.delivering = false }()

	d.deliver(m)
	for len(d.pending) > 0 {
		next := d.pending[0]
		d.pending = d.pending[1:]
		d.deliver(next)
	}
}

func (d *Document) deliver(m Mutation) {
	for _, id := range d.order {
		if fn, ok := d.observers[id]; ok {
			fn(m)
		}
	}
}

// Elements yields every element below the root in document order.
func (d *Document) Elements() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for _, c := range d.root.children {
			if !c.walk(yield) {
				return
			}
		}
	}
}
