package cssvalue

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKind  ColorKind
		wantRGB   [3]uint8
		wantAlpha float64
		resolved  bool
	}{
		{name: "named", input: "LimeGreen", wantKind: KindNamed, wantRGB: [3]uint8{50, 205, 50}, wantAlpha: 1, resolved: true},
		{name: "hex3", input: "#FFF", wantKind: KindHex3, wantRGB: [3]uint8{255, 255, 255}, wantAlpha: 1, resolved: true},
		{name: "hex4", input: "#0008", wantKind: KindHex4, wantRGB: [3]uint8{0, 0, 0}, wantAlpha: 0.533, resolved: true},
		{name: "hex6", input: "#32CD32", wantKind: KindHex6, wantRGB: [3]uint8{50, 205, 50}, wantAlpha: 1, resolved: true},
		{name: "hex8", input: "#ff000080", wantKind: KindHex8, wantRGB: [3]uint8{255, 0, 0}, wantAlpha: 0.502, resolved: true},
		{name: "rgb commas", input: "rgb(50, 205, 50)", wantKind: KindRGB, wantRGB: [3]uint8{50, 205, 50}, wantAlpha: 1, resolved: true},
		{name: "rgb spaces", input: "rgb(50 205 50)", wantKind: KindRGB, wantRGB: [3]uint8{50, 205, 50}, wantAlpha: 1, resolved: true},
		{name: "rgb slash alpha", input: "rgb(0 0 0 / 50%)", wantKind: KindRGBA, wantRGB: [3]uint8{0, 0, 0}, wantAlpha: 0.5, resolved: true},
		{name: "rgb percent", input: "rgb(100%, 0%, 0%)", wantKind: KindRGB, wantRGB: [3]uint8{255, 0, 0}, wantAlpha: 1, resolved: true},
		{name: "rgba", input: "rgba(0,0,0,0)", wantKind: KindRGBA, wantRGB: [3]uint8{0, 0, 0}, wantAlpha: 0, resolved: true},
		{name: "hsl", input: "hsl(0, 100%, 50%)", wantKind: KindHSL, wantRGB: [3]uint8{255, 0, 0}, wantAlpha: 1, resolved: true},
		{name: "transparent", input: "transparent", wantKind: KindKeyword, wantAlpha: 0, resolved: true},
		{name: "currentColor", input: "currentColor", wantKind: KindKeyword},
		{name: "important", input: "red !important", wantKind: KindNamed, wantRGB: [3]uint8{255, 0, 0}, wantAlpha: 1, resolved: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := ParseColor(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, c.Kind)
			assert.Equal(t, tt.resolved, c.Resolved())
			if tt.resolved {
				assert.Equal(t, tt.wantRGB, [3]uint8{c.R, c.G, c.B})
				assert.InDelta(t, tt.wantAlpha, c.A, 0.001)
			}
		})
	}
}

func TestParseColor_NotAColor(t *testing.T) {
	for _, input := range []string{"", "var(--uij-border)", "linear-gradient(red, blue)", "#ggg", "#12345", "rgb(1, 2)", "bogus", "1px solid"} {
		t.Run(input, func(t *testing.T) {
			_, ok := ParseColor(input)
			assert.False(t, ok)
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"#32CD32", "#32cd32"},
		{"rgb(50, 205, 50)", "#32cd32"},
		{"rgba(0, 0, 0, 0)", "rgba(0, 0, 0, 0)"},
		{"rgba(255,0,0,0.5)", "rgba(255, 0, 0, 0.5)"},
		{"rgba(255, 0, 0, 1)", "#ff0000"},
		{"  RED  ", "red"},
		{"currentColor", "currentcolor"},
		{"Transparent", "transparent"},
		{"var(--Uij-Border)", "var(--uij-border)"},
		{"#FF0000 !important", "#ff0000"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestColor_Grayscale(t *testing.T) {
	for input, want := range map[string]bool{
		"#121212":         true,
		"#777":            true,
		"gray":            true,
		"white":           true,
		"rgb(8, 8, 8)":    true,
		"#123456":         false,
		"red":             false,
		"inherit":         false,
		"rgb(10, 10, 11)": false,
	} {
		t.Run(input, func(t *testing.T) {
			c, ok := ParseColor(input)
			require.True(t, ok)
			assert.Equal(t, want, c.Grayscale())
		})
	}
}

func TestIsZeroValue(t *testing.T) {
	assert.True(t, IsZeroValue(""))
	assert.True(t, IsZeroValue("none"))
	assert.True(t, IsZeroValue(" NONE !important"))
	assert.True(t, IsZeroValue("0"))
	assert.False(t, IsZeroValue("0 0 4px red"))
}

func TestFindColor(t *testing.T) {
	tests := []struct {
		value string
		want  string
		found bool
	}{
		{"1px solid #ff0000", "#ff0000", true},
		{"url(a.png) no-repeat red", "red", true},
		{"rgb(0 0 0 / 0.5) url(x.png)", "rgb(0 0 0 / 0.5)", true},
		{"1px solid var(--uij-border)", "", false},
		{"transparent", "transparent", true},
		{"none", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			span, ok := FindColor(tt.value)
			require.Equal(t, tt.found, ok)
			if ok {
				assert.Equal(t, tt.want, tt.value[span.Start:span.End])
			}
		})
	}
}

func TestNormalize_RGBMatchesHex(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("opaque rgb() normalizes to the same string as its hex form", prop.ForAll(
		func(r, g, b uint8) bool {
			hex := fmt.Sprintf("#%02X%02X%02X", r, g, b)
			rgb := fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
			return Normalize(hex) == Normalize(rgb)
		},
		gen.UInt8(), gen.UInt8(), gen.UInt8(),
	))

	properties.TestingRun(t)
}
