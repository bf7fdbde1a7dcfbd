package xl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePatternFill(t *testing.T) {
	in := `<fill><patternFill patternType="solid"><fgColor theme="5" tint="0.5999938962981048"/><bgColor indexed="64"/></patternFill></fill>`
	f, err := ParseFill(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, PatternSolid, f.PatternType)
	assert.Equal(t, ThemeColor(5, 0.5999938962981048), *f.FgColor)
	assert.Equal(t, IndexedColor(64), *f.BgColor)
	assert.Nil(t, f.Gradient)

	back, err := ParseFill(strings.NewReader(f.OOXML()))
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestParseGradientFill(t *testing.T) {
	in := `<fill>
  <gradientFill degree="90">
    <stop position="0"><color theme="0"/></stop>
    <stop position="1"><color rgb="FF4F81BD"/></stop>
  </gradientFill>
</fill>`
	f, err := ParseFill(strings.NewReader(in))
	require.NoError(t, err)
	require.NotNil(t, f.Gradient)
	assert.Equal(t, 90.0, f.Gradient.Degree)
	assert.Equal(t, []GradientStop{
		{Position: 0, Color: ThemeColor(0, 0)},
		{Position: 1, Color: RGBColor("FF4F81BD")},
	}, f.Gradient.Stops)
	assert.False(t, f.IsEmpty())

	res, err := f.Background(nil)
	require.NoError(t, err)
	assert.Equal(t, "FFFFFF", res.RGB)

	back, err := ParseFill(strings.NewReader(f.OOXML()))
	require.NoError(t, err)
	assert.Equal(t, f, back)
}

func TestFillBackground(t *testing.T) {
	f := SolidFill(ThemeColor(SlotAccent1, 0))
	res, err := f.Background(nil)
	require.NoError(t, err)
	assert.Equal(t, "4F81BD", res.RGB)

	res, err = (&Fill{}).Background(nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: IndexSystemBackground, RGB: "FFFFFF"}, res)

	bg := IndexedColor(13)
	res, err = (&Fill{PatternType: "lightGray", BgColor: &bg}).Background(nil)
	require.NoError(t, err)
	assert.Equal(t, Resolved{Index: 13, RGB: "FFFF00"}, res)

	assert.True(t, (&Fill{PatternType: PatternNone}).IsEmpty())
	assert.Contains(t, (&Fill{}).OOXML(), `patternType="none"`)
}
