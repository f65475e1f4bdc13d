// Package catalog holds the design rule tables: the accent color, allowed
// and forbidden colors, forbidden properties, selectors that must render
// with a transparent background, and the design tokens used by auto-fix.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yacobolo/uijenforce/internal/cssvalue"
)

// Tokens are the replacement values auto-fix writes.
type Tokens struct {
	MutedText string `yaml:"muted-text" toml:"muted-text" koanf:"muted-text"`
	Border    string `yaml:"border" toml:"border" koanf:"border"`
}

// Rules is the decodable form of a catalog.
type Rules struct {
	Accent               string   `yaml:"accent" toml:"accent" koanf:"accent"`
	AllowedColors        []string `yaml:"allowed-colors" toml:"allowed-colors" koanf:"allowed-colors"`
	ForbiddenColors      []string `yaml:"forbidden-colors" toml:"forbidden-colors" koanf:"forbidden-colors"`
	ForbiddenProperties  []string `yaml:"forbidden-properties" toml:"forbidden-properties" koanf:"forbidden-properties"`
	TransparentSelectors []string `yaml:"transparent-selectors" toml:"transparent-selectors" koanf:"transparent-selectors"`
	PrimaryMarkers       []string `yaml:"primary-markers" toml:"primary-markers" koanf:"primary-markers"`
	Tokens               Tokens   `yaml:"tokens" toml:"tokens" koanf:"tokens"`
	Extensions           []string `yaml:"extensions" toml:"extensions" koanf:"extensions"`
}

// DefaultRules returns the built-in rule tables.
func DefaultRules() Rules {
	return Rules{
		Accent: "#32CD32",
		AllowedColors: []string{
			"#32CD32", "limegreen",
			"#000000", "#111111", "#222222", "#333333", "#444444", "#555555",
			"#666666", "#777777", "#888888", "#999999", "#aaaaaa", "#bbbbbb",
			"#cccccc", "#dddddd", "#eeeeee", "#ffffff",
			"transparent", "inherit", "currentColor",
		},
		ForbiddenColors: []string{
			"red", "blue", "green", "yellow", "purple", "pink", "orange",
			"cyan", "magenta", "brown", "violet", "indigo", "teal",
			"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff", "#00ffff",
		},
		ForbiddenProperties: []string{"box-shadow", "text-shadow"},
		TransparentSelectors: []string{
			"button", ".uij-btn", `[role="button"]`,
			".hamburger-container", ".header-menu-item", ".nav-item",
		},
		PrimaryMarkers: []string{"primary", "uij-btn-primary"},
		Tokens: Tokens{
			MutedText: "#888888",
			Border:    "var(--uij-border)",
		},
		Extensions: []string{".css", ".scss", ".sass", ".less", ".html", ".js", ".jsx", ".ts", ".tsx"},
	}
}

// Overlay returns base with every non-empty field of over applied on top.
func Overlay(base, over Rules) Rules {
	out := base.clone()
	if over.Accent != "" {
		out.Accent = over.Accent
	}
	if over.AllowedColors != nil {
		out.AllowedColors = slices.Clone(over.AllowedColors)
	}
	if over.ForbiddenColors != nil {
		out.ForbiddenColors = slices.Clone(over.ForbiddenColors)
	}
	if over.ForbiddenProperties != nil {
		out.ForbiddenProperties = slices.Clone(over.ForbiddenProperties)
	}
	if over.TransparentSelectors != nil {
		out.TransparentSelectors = slices.Clone(over.TransparentSelectors)
	}
	if over.PrimaryMarkers != nil {
		out.PrimaryMarkers = slices.Clone(over.PrimaryMarkers)
	}
	if over.Tokens.MutedText != "" {
		out.Tokens.MutedText = over.Tokens.MutedText
	}
	if over.Tokens.Border != "" {
		out.Tokens.Border = over.Tokens.Border
	}
	if over.Extensions != nil {
		out.Extensions = slices.Clone(over.Extensions)
	}
	return out
}

func (r Rules) clone() Rules {
	out := r
	out.AllowedColors = slices.Clone(r.AllowedColors)
	out.ForbiddenColors = slices.Clone(r.ForbiddenColors)
	out.ForbiddenProperties = slices.Clone(r.ForbiddenProperties)
	out.TransparentSelectors = slices.Clone(r.TransparentSelectors)
	out.PrimaryMarkers = slices.Clone(r.PrimaryMarkers)
	out.Extensions = slices.Clone(r.Extensions)
	return out
}

// Catalog is a validated, canonicalized and immutable set of rules. A
// single instance is shared by every driver.
type Catalog struct {
	rules Rules

	accent         cssvalue.Color
	allowed        map[string]struct{}
	forbidden      map[string]struct{}
	properties     []string
	selectors      []cssvalue.Matcher
	primaryMarkers []string
	extensions     []string
}

// New validates r and builds a Catalog. Every problem found is reported in
// a single *ConfigError.
func New(r Rules) (*Catalog, error) {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	c := &Catalog{
		rules:     r.clone(),
		allowed:   make(map[string]struct{}),
		forbidden: make(map[string]struct{}),
	}

	accent, ok := cssvalue.ParseColor(r.Accent)
	switch {
	case strings.TrimSpace(r.Accent) == "":
		addf("accent: must not be empty")
	case !ok || !accent.Opaque():
		addf("accent: %q is not an opaque color", r.Accent)
	default:
		c.accent = accent
	}

	for i, raw := range r.AllowedColors {
		canon, err := canonicalColor(raw)
		if err != nil {
			addf("allowed-colors[%d]: %v", i, err)
			continue
		}
		c.allowed[canon] = struct{}{}
	}
	for i, raw := range r.ForbiddenColors {
		canon, err := canonicalColor(raw)
		if err != nil {
			addf("forbidden-colors[%d]: %v", i, err)
			continue
		}
		if _, clash := c.allowed[canon]; clash {
			addf("forbidden-colors[%d]: %q is also an allowed color", i, raw)
			continue
		}
		c.forbidden[canon] = struct{}{}
	}
	if c.accent.Resolved() {
		if _, clash := c.forbidden[c.accent.Canonical()]; clash {
			addf("accent: %q is also a forbidden color", r.Accent)
		}
	}

	for i, raw := range r.ForbiddenProperties {
		name := strings.ToLower(strings.TrimSpace(raw))
		if !isPropertyName(name) {
			addf("forbidden-properties[%d]: %q is not a property name", i, raw)
			continue
		}
		if !slices.Contains(c.properties, name) {
			c.properties = append(c.properties, name)
		}
	}

	for i, raw := range r.TransparentSelectors {
		m, err := cssvalue.ParseMatcher(raw)
		if err != nil {
			addf("transparent-selectors[%d]: %v", i, err)
			continue
		}
		c.selectors = append(c.selectors, m)
	}

	for i, raw := range r.PrimaryMarkers {
		marker := strings.TrimPrefix(strings.TrimSpace(raw), ".")
		if marker == "" {
			addf("primary-markers[%d]: must not be empty", i)
			continue
		}
		c.primaryMarkers = append(c.primaryMarkers, marker)
	}

	if strings.TrimSpace(r.Tokens.MutedText) == "" {
		addf("tokens.muted-text: must not be empty")
	} else if !c.acceptsToken(r.Tokens.MutedText) {
		addf("tokens.muted-text: %q would itself be a forbidden color", r.Tokens.MutedText)
	}
	if strings.TrimSpace(r.Tokens.Border) == "" {
		addf("tokens.border: must not be empty")
	} else if !c.acceptsToken(r.Tokens.Border) {
		addf("tokens.border: %q would itself be a forbidden color", r.Tokens.Border)
	}

	for i, raw := range r.Extensions {
		ext := strings.ToLower(strings.TrimSpace(raw))
		if len(ext) < 2 || ext[0] != '.' {
			addf("extensions[%d]: %q must start with a dot", i, raw)
			continue
		}
		c.extensions = append(c.extensions, ext)
	}

	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}
	return c, nil
}

// Default returns a catalog built from DefaultRules.
func Default() *Catalog {
	c, err := New(DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("catalog: default rules are invalid: %v", err))
	}
	return c
}

func canonicalColor(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("must not be empty")
	}
	c, ok := cssvalue.ParseColor(raw)
	if !ok {
		return "", fmt.Errorf("%q is not a color", raw)
	}
	return c.Canonical(), nil
}

// acceptsToken reports whether writing v as a fix value keeps the target
// compliant. Values that are not colors (custom properties) are accepted.
func (c *Catalog) acceptsToken(v string) bool {
	col, ok := cssvalue.ParseColor(v)
	if !ok {
		return true
	}
	canon := col.Canonical()
	if _, bad := c.forbidden[canon]; bad {
		return false
	}
	if _, good := c.allowed[canon]; good {
		return true
	}
	return col.Grayscale() || col.ZeroAlpha() || col.SameRGB(c.accent)
}

func isPropertyName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !(r >= 'a' && r <= 'z') && r != '-' && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// Accent returns the parsed accent color.
func (c *Catalog) Accent() cssvalue.Color {
	return c.accent
}

// AllowsLiteral reports whether a canonical color is listed as allowed.
func (c *Catalog) AllowsLiteral(canonical string) bool {
	_, ok := c.allowed[canonical]
	return ok
}

// ForbidsLiteral reports whether a canonical color is listed as forbidden.
func (c *Catalog) ForbidsLiteral(canonical string) bool {
	_, ok := c.forbidden[canonical]
	return ok
}

// ForbiddenProperties returns the forbidden property names in catalog order.
func (c *Catalog) ForbiddenProperties() []string {
	return slices.Clone(c.properties)
}

// ForbidsProperty reports whether name is a forbidden property.
func (c *Catalog) ForbidsProperty(name string) bool {
	return slices.Contains(c.properties, strings.ToLower(strings.TrimSpace(name)))
}

// TransparentSelectors returns the compiled transparency selectors.
func (c *Catalog) TransparentSelectors() []cssvalue.Matcher {
	return slices.Clone(c.selectors)
}

// PrimaryMarkers returns the class names that exempt an element from the
// transparency requirement.
func (c *Catalog) PrimaryMarkers() []string {
	return slices.Clone(c.primaryMarkers)
}

// IsPrimaryMarker reports whether class is a primary marker.
func (c *Catalog) IsPrimaryMarker(class string) bool {
	for _, m := range c.primaryMarkers {
		if strings.EqualFold(m, class) {
			return true
		}
	}
	return false
}

// Tokens returns the auto-fix replacement values.
func (c *Catalog) Tokens() Tokens {
	return c.rules.Tokens
}

// Extensions returns the lower-cased file extensions scanned by default.
func (c *Catalog) Extensions() []string {
	return slices.Clone(c.extensions)
}

// Rules returns a copy of the rules the catalog was built from.
func (c *Catalog) Rules() Rules {
	return c.rules.clone()
}
