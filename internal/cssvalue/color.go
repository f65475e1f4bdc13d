package cssvalue

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ColorKind identifies the textual form a color value was written in.
type ColorKind int

const (
	KindUnknown ColorKind = iota
	KindNamed
	KindHex3
	KindHex4
	KindHex6
	KindHex8
	KindRGB
	KindRGBA
	KindHSL
	KindHSLA
	KindKeyword
)

func (k ColorKind) String() string {
	switch k {
	case KindNamed:
		return "named"
	case KindHex3:
		return "hex3"
	case KindHex4:
		return "hex4"
	case KindHex6:
		return "hex6"
	case KindHex8:
		return "hex8"
	case KindRGB:
		return "rgb"
	case KindRGBA:
		return "rgba"
	case KindHSL:
		return "hsl"
	case KindHSLA:
		return "hsla"
	case KindKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

// Color keywords that are not plain named colors.
const (
	KeywordTransparent  = "transparent"
	KeywordInherit      = "inherit"
	KeywordCurrentColor = "currentcolor"
)

// Color is a parsed CSS color. Keyword colors other than transparent carry
// no channel values; Resolved reports whether R, G, B and A are meaningful.
type Color struct {
	Kind ColorKind
	// Text is the trimmed, lower-cased input.
	Text    string
	R, G, B uint8
	A       float64

	resolved bool
}

// Resolved reports whether the channel values are known.
func (c Color) Resolved() bool {
	return c.resolved
}

// Opaque reports whether the color is resolved and fully opaque.
func (c Color) Opaque() bool {
	return c.resolved && c.A >= 1
}

// Grayscale reports whether the red, green and blue channels are equal.
func (c Color) Grayscale() bool {
	return c.resolved && c.R == c.G && c.G == c.B
}

// ZeroAlpha reports whether the color paints nothing.
func (c Color) ZeroAlpha() bool {
	return c.resolved && c.A <= 0
}

// SameRGB reports whether both colors resolve to the same channel values.
func (c Color) SameRGB(o Color) bool {
	return c.resolved && o.resolved && c.R == o.R && c.G == o.G && c.B == o.B
}

// Canonical returns the comparison form of the color. Functional notations
// resolve the way a canvas fill style does: #rrggbb when opaque, otherwise
// rgba(r, g, b, a). Every other form keeps its lower-cased text.
func (c Color) Canonical() string {
	switch c.Kind {
	case KindRGB, KindRGBA, KindHSL, KindHSLA:
		return canvasStyle(c.R, c.G, c.B, c.A)
	}
	return c.Text
}

func (c Color) String() string {
	return c.Canonical()
}

func canvasStyle(r, g, b uint8, a float64) string {
	if a >= 1 {
		return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(a, 'f', -1, 64))
}

// Normalize produces the canonical comparison form of a raw color value.
// It never fails: values that are not colors are returned trimmed and
// lower-cased.
func Normalize(raw string) string {
	text := strings.ToLower(strings.TrimSpace(StripImportant(raw)))
	if c, ok := ParseColor(text); ok {
		return c.Canonical()
	}
	return text
}

// StripImportant removes a trailing !important priority.
func StripImportant(v string) string {
	t := strings.TrimSpace(v)
	if i := strings.LastIndex(strings.ToLower(t), "!important"); i >= 0 && strings.TrimSpace(t[i+len("!important"):]) == "" {
		return strings.TrimSpace(t[:i])
	}
	return t
}

// IsColorName reports whether name is a CSS named color or color keyword.
func IsColorName(name string) bool {
	n := strings.ToLower(name)
	if _, ok := colornames.Map[n]; ok {
		return true
	}
	return n == KeywordTransparent || n == KeywordCurrentColor
}

// ParseColor parses a CSS color value. The boolean is false when raw is not
// a color this package understands (custom properties, gradients, typos).
func ParseColor(raw string) (Color, bool) {
	text := strings.ToLower(strings.TrimSpace(StripImportant(raw)))
	if text == "" {
		return Color{}, false
	}

	switch text {
	case KeywordTransparent:
		return Color{Kind: KindKeyword, Text: text, A: 0, resolved: true}, true
	case KeywordInherit, KeywordCurrentColor:
		return Color{Kind: KindKeyword, Text: text}, true
	}

	if strings.HasPrefix(text, "#") {
		return parseHex(text)
	}

	if open := strings.IndexByte(text, '('); open > 0 && strings.HasSuffix(text, ")") {
		return parseFunction(text, text[:open], text[open+1:len(text)-1])
	}

	if rgba, ok := colornames.Map[text]; ok {
		return Color{Kind: KindNamed, Text: text, R: rgba.R, G: rgba.G, B: rgba.B, A: 1, resolved: true}, true
	}

	return Color{}, false
}

func parseHex(text string) (Color, bool) {
	digits := text[1:]
	if _, err := strconv.ParseUint(digits, 16, 64); err != nil {
		return Color{}, false
	}

	switch len(digits) {
	case 3, 6:
		c, err := colorful.Hex(text)
		if err != nil {
			return Color{}, false
		}
		r, g, b := c.RGB255()
		kind := KindHex6
		if len(digits) == 3 {
			kind = KindHex3
		}
		return Color{Kind: kind, Text: text, R: r, G: g, B: b, A: 1, resolved: true}, true
	case 4, 8:
		expanded := digits
		kind := KindHex8
		if len(digits) == 4 {
			kind = KindHex4
			var b strings.Builder
			for _, ch := range digits {
				b.WriteRune(ch)
				b.WriteRune(ch)
			}
			expanded = b.String()
		}
		v, _ := strconv.ParseUint(expanded, 16, 32)
		return Color{
			Kind:     kind,
			Text:     text,
			R:        uint8(v >> 24),
			G:        uint8(v >> 16),
			B:        uint8(v >> 8),
			A:        roundAlpha(float64(uint8(v)) / 255),
			resolved: true,
		}, true
	}
	return Color{}, false
}

func parseFunction(text, name, body string) (Color, bool) {
	args := splitArgs(body)
	switch name {
	case "rgb", "rgba":
		if len(args) != 3 && len(args) != 4 {
			return Color{}, false
		}
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			v, ok := parseChannel(args[i])
			if !ok {
				return Color{}, false
			}
			ch[i] = v
		}
		alpha := 1.0
		if len(args) == 4 {
			a, ok := parseAlpha(args[3])
			if !ok {
				return Color{}, false
			}
			alpha = a
		}
		kind := KindRGB
		if name == "rgba" || len(args) == 4 {
			kind = KindRGBA
		}
		return Color{Kind: kind, Text: text, R: ch[0], G: ch[1], B: ch[2], A: alpha, resolved: true}, true

	case "hsl", "hsla":
		if len(args) != 3 && len(args) != 4 {
			return Color{}, false
		}
		h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
		if err != nil {
			return Color{}, false
		}
		s, ok := parsePercent(args[1])
		if !ok {
			return Color{}, false
		}
		l, ok := parsePercent(args[2])
		if !ok {
			return Color{}, false
		}
		alpha := 1.0
		if len(args) == 4 {
			a, ok := parseAlpha(args[3])
			if !ok {
				return Color{}, false
			}
			alpha = a
		}
		h = math.Mod(h, 360)
		if h < 0 {
			h += 360
		}
		r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
		kind := KindHSL
		if name == "hsla" || len(args) == 4 {
			kind = KindHSLA
		}
		return Color{Kind: kind, Text: text, R: r, G: g, B: b, A: alpha, resolved: true}, true
	}
	return Color{}, false
}

// splitArgs accepts both the comma form rgb(1, 2, 3) and the space form
// rgb(1 2 3 / 50%).
func splitArgs(body string) []string {
	body = strings.NewReplacer(",", " ", "/", " ").Replace(body)
	return strings.Fields(body)
}

func parseChannel(s string) (uint8, bool) {
	if strings.HasSuffix(s, "%") {
		p, ok := parsePercent(s)
		if !ok {
			return 0, false
		}
		return uint8(math.Round(p * 255)), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return uint8(math.Round(clamp(v, 0, 255))), true
}

func parsePercent(s string) (float64, bool) {
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return clamp(v/100, 0, 1), true
}

func parseAlpha(s string) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		p, ok := parsePercent(s)
		return roundAlpha(p), ok
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return roundAlpha(clamp(v, 0, 1)), true
}

// roundAlpha keeps three decimals, enough to tell 0 from "almost 0".
func roundAlpha(a float64) float64 {
	return math.Round(a*1000) / 1000
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
