package xl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAuto(t *testing.T) {
	res, err := AutoColor().Resolve(FontContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexBlack, RGB: "000000"}, res)

	res, err = AutoColor().Resolve(FillContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexSystemBackground, RGB: "FFFFFF"}, res)

	res, err = AutoColor().Resolve(BorderContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexBlack, RGB: "000000"}, res)
}

func TestResolveIndexed(t *testing.T) {
	res, err := IndexedColor(IndexSystemForeground).Resolve(FontContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexBlack, RGB: "000000"}, res)

	res, err = IndexedColor(IndexSystemForeground).Resolve(GenericContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexSystemForeground, RGB: "000000"}, res)

	res, err = IndexedColor(10).Resolve(GenericContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: 10, RGB: "FF0000"}, res)

	_, err = IndexedColor(66).Resolve(GenericContext, nil)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	_, err = IndexedColor(-1).Resolve(GenericContext, nil)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestResolveRGB(t *testing.T) {
	for _, v := range []string{"FF0000", "ff0000", "#F00", "FFFF0000", "00ff0000"} {
		res, err := RGBColor(v).Resolve(GenericContext, nil)
		require.NoError(t, err, v)
		assert.Equal(t, Resolved{Index: 10, RGB: "FF0000"}, res, v)
	}

	_, err := RGBColor("GG0000").Resolve(GenericContext, nil)
	assert.ErrorIs(t, err, ErrMalformedRGB)

	_, err = RGBColor("12345").Resolve(GenericContext, nil)
	assert.ErrorIs(t, err, ErrMalformedRGB)
}

func TestResolveTheme(t *testing.T) {
	res, err := ThemeColor(SlotAccent1, 0).Resolve(GenericContext, nil)
	require.NoError(t, err)
	assert.Equal(t, "4F81BD", res.RGB)
	assert.True(t, res.IsResolved())

	res, err = ThemeColor(SlotLight1, 0).Resolve(GenericContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexWhite, RGB: "FFFFFF"}, res)

	// slots the theme lacks fall back to the default theme, then to dark 1
	custom := &Theme{Name: "Custom"}
	require.NoError(t, custom.SetSlot(SlotDark1, "112233"))

	res, err = ThemeColor(SlotAccent2, 0).Resolve(GenericContext, custom)
	require.NoError(t, err)
	assert.Equal(t, "C0504D", res.RGB)

	res, err = ThemeColor(42, 0).Resolve(GenericContext, custom)
	require.NoError(t, err)
	assert.Equal(t, "112233", res.RGB)

	res, err = ThemeColor(42, 0).Resolve(GenericContext, nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexBlack, RGB: "000000"}, res)
}

func TestResolveTint(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{ThemeColor(SlotAccent1, 0.3999755851924192), "95B4D7"},
		{ThemeColor(SlotAccent1, -0.249977111117893), "376393"},
		{ThemeColor(SlotLight1, -0.05), "F2F2F2"},
		{ThemeColor(SlotDark2, 0.5), "72A2DC"},
		{RGBColor("C0504D").WithTint(-0.5), "642724"},
		{IndexedColor(IndexBlack).WithTint(0.25), "404040"},
		{ThemeColor(SlotAccent1, 0.004), "4F81BD"},
	}
	for _, tt := range tests {
		res, err := tt.c.Resolve(GenericContext, nil)
		require.NoError(t, err, tt.c.String())
		assert.Equal(t, tt.want, res.RGB, tt.c.String())
		assert.GreaterOrEqual(t, res.Index, 8)
		assert.Less(t, res.Index, 64)
	}
}

func TestApplyTint(t *testing.T) {
	tests := []struct {
		rgb  string
		tint float64
		want string
	}{
		{"000000", 0.5, "808080"},
		{"FFFFFF", -0.5, "808080"},
		{"FF0000", 0.5, "FF8181"},
		{"808080", 0, "808080"},
		{"4f81bd", 0, "4F81BD"},
		{"000000", 1, "FFFFFF"},
		{"FFFFFF", -1, "000000"},
	}
	for _, tt := range tests {
		got, err := ApplyTint(tt.rgb, tt.tint)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %g", tt.rgb, tt.tint)
	}

	_, err := ApplyTint("FFFFFF", 1.5)
	assert.Error(t, err)
	_, err = ApplyTint("nope", 0.1)
	assert.ErrorIs(t, err, ErrMalformedRGB)
}

func TestNormalizeRGB(t *testing.T) {
	tests := map[string]string{
		"abc":       "AABBCC",
		"#abc":      "AABBCC",
		"a0b1c2":    "A0B1C2",
		" #A0B1C2 ": "A0B1C2",
		"80A0B1C2":  "A0B1C2",
	}
	for in, want := range tests {
		got, err := NormalizeRGB(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "#", "12", "1234567", "XYZ", "12345G"} {
		_, err := NormalizeRGB(in)
		assert.ErrorIs(t, err, ErrMalformedRGB, in)
	}
}

func TestNearestIndex(t *testing.T) {
	assert.Equal(t, IndexBlack, NearestIndex([3]int{0, 0, 0}))
	assert.Equal(t, IndexWhite, NearestIndex([3]int{255, 255, 255}))
	assert.Equal(t, 10, NearestIndex([3]int{250, 3, 3}))
	assert.Equal(t, 22, NearestIndex([3]int{0xC0, 0xC0, 0xC0}))
	// 000080 appears at 18 and 32
	assert.Equal(t, 18, NearestIndex([3]int{0, 0, 0x80}))
}

func TestResolveOrUnresolved(t *testing.T) {
	res := RGBColor("zz").ResolveOrUnresolved(GenericContext, nil)
	assert.Equal(t, Unresolved, res)
	assert.False(t, res.IsResolved())
	assert.Empty(t, res.ARGB())

	res = RGBColor("00FF00").ResolveOrUnresolved(GenericContext, nil)
	assert.Equal(t, "FF00FF00", res.ARGB())
}

func TestColorAccessors(t *testing.T) {
	c := ThemeColor(SlotAccent3, -0.25)
	assert.Equal(t, ColorTheme, c.Kind())
	assert.Equal(t, SlotAccent3, c.Slot())
	assert.Equal(t, -1, c.Index())
	assert.Equal(t, -0.25, c.Tint())
	assert.Equal(t, "theme(6, -0.25)", c.String())

	c = IndexedColor(12)
	assert.Equal(t, 12, c.Index())
	assert.Equal(t, -1, c.Slot())
	assert.Equal(t, "indexed", c.Kind().String())

	assert.True(t, AutoColor().IsAuto())
	assert.True(t, Color{}.IsAuto())
	assert.Equal(t, "ff00aa", RGBColor("ff00aa").RGB())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{`<color auto="1"/>`, AutoColor()},
		{`<color indexed="64"/>`, IndexedColor(64)},
		{`<color rgb="FF4F81BD"/>`, RGBColor("FF4F81BD")},
		{`<color theme="4" tint="-0.25"/>`, ThemeColor(4, -0.25)},
		{`<color theme="1" indexed="8"/>`, ThemeColor(1, 0)},
		{`<color rgb="FF000000" theme="1"/>`, RGBColor("FF000000")},
		{`<color indexed="10" tint="0.5"></color>`, IndexedColor(10).WithTint(0.5)},
	}
	for _, tt := range tests {
		c, err := ParseColor(strings.NewReader(tt.in))
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, c, tt.in)
	}
}

func TestParseColorBadAttr(t *testing.T) {
	_, err := ParseColor(strings.NewReader(`<color indexed="red"/>`))
	var ae *AttrError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "color", ae.Element)
	assert.Equal(t, "indexed", ae.Attr)
	assert.Equal(t, "red", ae.Value)

	_, err = ParseColor(strings.NewReader(`<fgColor rgb="FF000000"/>`))
	assert.ErrorIs(t, err, ErrUnexpectedElement)
}

func TestColorOOXML(t *testing.T) {
	assert.Contains(t, RGBColor("ff0000").OOXML(), `rgb="FFFF0000"`)
	assert.Contains(t, RGBColor("80112233").OOXML(), `rgb="80112233"`)
	assert.Contains(t, ThemeColor(3, 0).OOXML(), `theme="3"`)
	assert.NotContains(t, ThemeColor(3, 0).OOXML(), `tint`)
	assert.Contains(t, ThemeColor(3, 0.4).OOXML(), `tint="0.4"`)
	assert.Contains(t, IndexedColor(64).OOXML(), `indexed="64"`)
	assert.Contains(t, AutoColor().OOXML(), `auto="1"`)

	for _, c := range []Color{ThemeColor(5, -0.1), IndexedColor(22), RGBColor("FF123456"), AutoColor()} {
		back, err := ParseColor(strings.NewReader(c.OOXML()))
		require.NoError(t, err)
		assert.Equal(t, c, back)
	}
}
