package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorChoiceResolve(t *testing.T) {
	tests := []struct {
		name string
		cc   *ColorChoice
		want string
	}{
		{"scheme", SchemeColor("accent1"), "4F81BD"},
		{"alias", SchemeColor("tx1"), "000000"},
		{"rgb", SRGBColor("abcdef"), "ABCDEF"},
		{"lumMod", SRGBColor("FFFFFF", ColorMod{ModLumMod, 50000}), "808080"},
		{"lumMod scheme", SchemeColor("bg1", ColorMod{ModLumMod, 85000}), "D9D9D9"},
		{"lumOff", SRGBColor("000000", ColorMod{ModLumOff, 50000}), "808080"},
		{"shade", SRGBColor("FFFFFF", ColorMod{ModShade, 50000}), "808080"},
		{"tint", SRGBColor("000000", ColorMod{ModTint, 50000}), "808080"},
		{"alpha ignored", SRGBColor("FF0000", ColorMod{ModAlpha, 50000}), "FF0000"},
		{"desaturate", SRGBColor("FF0000", ColorMod{ModSatMod, 0}), "808080"},
		{"preset", &ColorChoice{Kind: ChoicePreset, Value: "navy"}, "000080"},
		{"system", &ColorChoice{Kind: ChoiceSystem, Value: "window"}, "FFFFFF"},
		{"system last", &ColorChoice{Kind: ChoiceSystem, Value: "windowText", LastColor: "222222"}, "222222"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cc.Resolve(nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorChoiceResolveErrors(t *testing.T) {
	for _, cc := range []*ColorChoice{
		SchemeColor("accent9"),
		{Kind: ChoicePreset, Value: "chartreuse-ish"},
		{Kind: ChoiceSystem, Value: "scrollBar"},
		SRGBColor("12"),
	} {
		_, err := cc.Resolve(nil)
		assert.Error(t, err, cc.Value)
	}
}

func TestColorChoiceToColor(t *testing.T) {
	c, err := SchemeColor("accent2").ToColor(nil)
	require.NoError(t, err)
	assert.Equal(t, ThemeColor(SlotAccent2, 0), c)

	c, err = SchemeColor("bg1", ColorMod{ModLumMod, 50000}).ToColor(nil)
	require.NoError(t, err)
	assert.Equal(t, RGBColor("808080"), c)
}
