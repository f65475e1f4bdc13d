package cssvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMatcher(t *testing.T) {
	tests := []struct {
		selector string
		element  Element
		want     bool
	}{
		{"button", Element{Tag: "BUTTON"}, true},
		{"button", Element{Tag: "div"}, false},
		{".uij-btn", Element{Tag: "a", Classes: []string{"uij-btn"}}, true},
		{".nav-item", Element{Tag: "li", Classes: []string{"NAV-ITEM"}}, true},
		{`[role="button"]`, Element{Tag: "div", Attrs: map[string]string{"role": "button"}}, true},
		{`[role="button"]`, Element{Tag: "div", Attrs: map[string]string{"role": "link"}}, false},
		{"[disabled]", Element{Tag: "button", Attrs: map[string]string{"disabled": ""}}, true},
		{"#save", Element{Tag: "button", ID: "save"}, true},
		{"button.primary", Element{Tag: "button"}, false},
		{"a.nav-item", Element{Tag: "a", Classes: []string{"x", "nav-item"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			m, err := ParseMatcher(tt.selector)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Matches(tt.element))
			assert.Equal(t, tt.selector, m.String())
		})
	}
}

func TestParseMatcher_Rejects(t *testing.T) {
	for _, selector := range []string{"", "*", "nav a", "a, b", "a > b", ".", "[", "&:hover"} {
		t.Run(selector, func(t *testing.T) {
			_, err := ParseMatcher(selector)
			assert.Error(t, err)
		})
	}
}

func TestParseSelectorList(t *testing.T) {
	elems, err := ParseSelectorList(".nav a.nav-item:hover, button::before,\n  .card > [role=button]")
	require.NoError(t, err)
	require.Len(t, elems, 3)

	assert.Equal(t, "a", elems[0].Tag)
	assert.Equal(t, []string{"nav-item"}, elems[0].Classes)
	assert.Equal(t, "button", elems[1].Tag)
	v, ok := elems[2].Attr("role")
	assert.True(t, ok)
	assert.Equal(t, "button", v)
}

func TestResolveNested(t *testing.T) {
	parents := []Element{{Classes: []string{"uij-btn"}}, {Tag: "button"}}

	tests := []struct {
		name    string
		prelude string
		want    []string
	}{
		{name: "compound refines each parent", prelude: "&.primary", want: []string{".uij-btn.primary", "button.primary"}},
		{name: "pseudo-class is the parent", prelude: "&:hover", want: []string{".uij-btn", "button"}},
		{name: "pseudo-element is the parent", prelude: "&::before", want: []string{".uij-btn", "button"}},
		{name: "suffix extends the last class or tag", prelude: "&-primary", want: []string{".uij-btn-primary", "button-primary"}},
		{name: "descendant of the parent", prelude: "& .icon", want: []string{".icon"}},
		{name: "child combinator", prelude: "& > span", want: []string{"span"}},
		{name: "refined then descendant", prelude: "&.open .icon", want: []string{".icon"}},
		{name: "plain nested selector", prelude: ".label", want: []string{".label"}},
		{name: "list mixes forms", prelude: "&.primary, &[aria-pressed=\"true\"], .x", want: []string{
			".uij-btn.primary", "button.primary",
			`.uij-btn[aria-pressed="true"]`, `button[aria-pressed="true"]`,
			".x",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elems, err := ResolveNested(tt.prelude, parents)
			require.NoError(t, err)
			got := make([]string, len(elems))
			for i, e := range elems {
				got[i] = e.String()
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("parents are not modified", func(t *testing.T) {
		_, err := ResolveNested("&-x.y", parents)
		require.NoError(t, err)
		assert.Equal(t, []string{"uij-btn"}, parents[0].Classes)
		assert.Equal(t, "button", parents[1].Tag)
	})

	t.Run("ampersand without a parent", func(t *testing.T) {
		_, err := ResolveNested("&.primary", nil)
		assert.Error(t, err)
	})
}

func TestElement_String(t *testing.T) {
	e := Element{Tag: "button", ID: "go", Classes: []string{"uij-btn", "primary"}, Attrs: map[string]string{"role": "button", "class": "x"}}
	assert.Equal(t, `button#go.uij-btn.primary[role="button"]`, e.String())
	assert.Equal(t, "*", Element{}.String())
}
