package enforcer

import (
	"fmt"
	"iter"

	"github.com/yacobolo/uijenforce/internal/cssvalue"
)

// LocationKind tells element locations from file locations.
type LocationKind string

const (
	LocationElement LocationKind = "element"
	LocationFile    LocationKind = "file"
)

// Location says where a violation was found. Element locations may name
// the document they belong to in File.
type Location struct {
	Kind    LocationKind `json:"kind"`
	Element string       `json:"element,omitempty"`
	File    string       `json:"file,omitempty"`
	Line    int          `json:"line,omitempty"`
	Column  int          `json:"column,omitempty"`
}

func (l Location) String() string {
	if l.Kind == LocationElement {
		if l.File != "" {
			return l.File + ": " + l.Element
		}
		return l.Element
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Target is one styled thing the engine can inspect and rewrite: a live
// element or a single source line.
type Target interface {
	// DeclaredValue returns the value declared for property, if any.
	DeclaredValue(property string) (string, bool)
	// SetDeclaredValue replaces the declared value. Drivers that refuse
	// the write return an error wrapping ErrMutationRefused.
	SetDeclaredValue(property, value string) error
	// Location describes the target for reports.
	Location() Location
}

// Identified targets expose the elements they style so the transparency
// rule can be applied.
type Identified interface {
	Identities() []cssvalue.Element
}

// PropertyLocator refines a target location to the position of one
// property's value.
type PropertyLocator interface {
	LocateValue(property string) Location
}

// Contexter returns the source text shown next to a violation.
type Contexter interface {
	Context() string
}

// Corpus is a lazily produced, ordered sequence of targets. A non-nil error
// marks a target that could not be read; the sequence continues after it.
type Corpus = iter.Seq2[Target, error]

// Targets returns a corpus over a fixed list of targets.
func Targets(targets ...Target) Corpus {
	return func(yield func(Target, error) bool) {
		for _, t := range targets {
			if !yield(t, nil) {
				return
			}
		}
	}
}

// Concat chains corpora in order.
func Concat(corpora ...Corpus) Corpus {
	return func(yield func(Target, error) bool) {
		for _, c := range corpora {
			for t, err := range c {
				if !yield(t, err) {
					return
				}
			}
		}
	}
}
