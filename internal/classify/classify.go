// Package classify decides whether a declared value complies with a rule
// catalog. It is pure: every function depends only on its inputs and the
// catalog.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yacobolo/uijenforce/internal/catalog"
	"github.com/yacobolo/uijenforce/internal/cssvalue"
)

// ColorProperties are the properties whose values are checked against the
// color rules, in evaluation order.
var ColorProperties = []string{"background-color", "color", "border-color"}

// ErrDisallowed is returned by Permit for a write the rules reject.
var ErrDisallowed = errors.New("disallowed by design rules")

// Verdict is the outcome of checking one value.
type Verdict int

const (
	VerdictCompliant Verdict = iota
	VerdictForbidden
	// VerdictUnparseable means the value could not be interpreted as a
	// color. Callers treat it as compliant.
	VerdictUnparseable
)

func (v Verdict) String() string {
	switch v {
	case VerdictCompliant:
		return "compliant"
	case VerdictForbidden:
		return "forbidden"
	case VerdictUnparseable:
		return "unparseable"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Classifier applies a catalog to individual values.
type Classifier struct {
	cat *catalog.Catalog
}

// New returns a classifier bound to cat.
func New(cat *catalog.Catalog) *Classifier {
	return &Classifier{cat: cat}
}

// Catalog returns the catalog the classifier applies.
func (c *Classifier) Catalog() *catalog.Catalog {
	return c.cat
}

// NormalizeColor returns the canonical comparison form of raw.
func (c *Classifier) NormalizeColor(raw string) string {
	return cssvalue.Normalize(raw)
}

// IsAllowed reports whether a canonical color complies: absent, the accent,
// an allowed literal, a grayscale color or a fully transparent one.
func (c *Classifier) IsAllowed(canonical string) bool {
	canonical = strings.ToLower(strings.TrimSpace(canonical))
	if canonical == "" || canonical == "none" {
		return true
	}
	if c.cat.ForbidsLiteral(canonical) {
		return false
	}
	if c.cat.AllowsLiteral(canonical) {
		return true
	}
	col, ok := cssvalue.ParseColor(canonical)
	if !ok {
		return false
	}
	if col.Kind == cssvalue.KindKeyword {
		return true
	}
	if col.Opaque() && col.SameRGB(c.cat.Accent()) {
		return true
	}
	return col.Grayscale() || col.ZeroAlpha()
}

// CheckColor classifies a raw color value and returns its canonical form.
// A value listing several colors, such as `border-color: red blue`, is
// forbidden when any of them is; the canonical form is then the offending
// color.
func (c *Classifier) CheckColor(raw string) (Verdict, string) {
	canonical := c.NormalizeColor(raw)
	if canonical == "" || canonical == "none" {
		return VerdictCompliant, canonical
	}
	if c.cat.ForbidsLiteral(canonical) {
		return VerdictForbidden, canonical
	}
	if _, ok := cssvalue.ParseColor(canonical); !ok {
		return c.checkColorList(canonical)
	}
	if c.IsAllowed(canonical) {
		return VerdictCompliant, canonical
	}
	return VerdictForbidden, canonical
}

func (c *Classifier) checkColorList(value string) (Verdict, string) {
	spans := cssvalue.FindColors(value)
	if len(spans) == 0 {
		return VerdictUnparseable, value
	}
	for _, span := range spans {
		if v, canonical := c.CheckColor(value[span.Start:span.End]); v == VerdictForbidden {
			return VerdictForbidden, canonical
		}
	}
	return VerdictCompliant, value
}

// IsForbiddenProperty reports whether declaring name with value breaks the
// rules. A value of none, 0 or nothing disables the property and complies.
func (c *Classifier) IsForbiddenProperty(name, value string) bool {
	return c.cat.ForbidsProperty(name) && !cssvalue.IsZeroValue(value)
}

// RequiresTransparency reports whether an element must render with a
// transparent background: it matches a transparency selector and carries
// no primary marker class.
func (c *Classifier) RequiresTransparency(e cssvalue.Element) bool {
	for _, class := range e.Classes {
		if c.cat.IsPrimaryMarker(class) {
			return false
		}
	}
	for _, m := range c.cat.TransparentSelectors() {
		if m.Matches(e) {
			return true
		}
	}
	return false
}

// IsTransparent reports whether a background-color value paints nothing.
// Values that cannot be resolved (keywords, custom properties) are given
// the benefit of the doubt.
func (c *Classifier) IsTransparent(value string) bool {
	if cssvalue.IsZeroValue(value) {
		return true
	}
	col, ok := cssvalue.ParseColor(value)
	if !ok || !col.Resolved() {
		return true
	}
	return col.ZeroAlpha()
}

// Permit is the write policy for style mutations: it rejects writes that
// would introduce a forbidden color or a forbidden property.
func (c *Classifier) Permit(property, value string) error {
	property = strings.ToLower(strings.TrimSpace(property))
	if isColorProperty(property) {
		if v, canonical := c.CheckColor(colorPart(property, value)); v == VerdictForbidden {
			return fmt.Errorf("%w: %s: %s", ErrDisallowed, property, canonical)
		}
	}
	if c.IsForbiddenProperty(property, value) {
		return fmt.Errorf("%w: %s is a forbidden property", ErrDisallowed, property)
	}
	return nil
}

func isColorProperty(property string) bool {
	switch property {
	case "background", "border":
		return true
	}
	for _, p := range ColorProperties {
		if p == property {
			return true
		}
	}
	return false
}

// colorPart picks the color token out of a shorthand value.
func colorPart(property, value string) string {
	if property != "background" && property != "border" {
		return value
	}
	span, ok := cssvalue.FindColor(value)
	if !ok {
		return ""
	}
	return value[span.Start:span.End]
}
