package xl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHSLFromRGB(t *testing.T) {
	tests := []struct {
		r, g, b int
		h, s, l int
	}{
		{0, 0, 0, UndefinedHue, 0, 0},
		{255, 255, 255, UndefinedHue, 0, 255},
		{128, 128, 128, UndefinedHue, 0, 128},
		{255, 0, 0, 0, 255, 128},
		{0, 255, 0, 85, 255, 128},
		{0, 0, 255, 170, 255, 128},
		{79, 129, 189, 150, 115, 134},
		{192, 80, 77, 2, 121, 135},
	}
	for _, tt := range tests {
		c := HSLFromRGB(tt.r, tt.g, tt.b)
		assert.Equal(t, tt.h, c.Hue(), "hue of %d,%d,%d", tt.r, tt.g, tt.b)
		assert.Equal(t, tt.s, c.Saturation(), "saturation of %d,%d,%d", tt.r, tt.g, tt.b)
		assert.Equal(t, tt.l, c.Luminance(), "luminance of %d,%d,%d", tt.r, tt.g, tt.b)
		assert.Equal(t, []int{tt.r, tt.g, tt.b}, []int{c.Red(), c.Green(), c.Blue()})
	}
}

func TestHSLFromHSL(t *testing.T) {
	c := HSLFromHSL(0, 255, 128)
	assert.Equal(t, []int{255, 1, 1}, []int{c.Red(), c.Green(), c.Blue()})

	c = HSLFromHSL(150, 115, 134)
	assert.Equal(t, []int{79, 131, 189}, []int{c.Red(), c.Green(), c.Blue()})

	c = HSLFromHSL(UndefinedHue, 0, 128)
	assert.Equal(t, []int{128, 128, 128}, []int{c.Red(), c.Green(), c.Blue()})
}

func TestHSLGraysRoundTrip(t *testing.T) {
	for v := 0; v <= RGBMax; v++ {
		c := HSLFromRGB(v, v, v)
		assert.Equal(t, 0, c.Saturation())
		back := HSLFromHSL(c.Hue(), c.Saturation(), c.Luminance())
		assert.Equal(t, []int{v, v, v}, []int{back.Red(), back.Green(), back.Blue()})
	}
}

func TestHSLRoundTripBounds(t *testing.T) {
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}
	worst := 0
	for r := 0; r <= 255; r += 5 {
		for g := 0; g <= 255; g += 5 {
			for b := 0; b <= 255; b += 5 {
				c := HSLFromRGB(r, g, b)
				back := HSLFromHSL(c.Hue(), c.Saturation(), c.Luminance())
				worst = max(worst, abs(back.Red()-r), abs(back.Green()-g), abs(back.Blue()-b))
			}
		}
	}
	assert.LessOrEqual(t, worst, 7)

	for h := 0; h <= HSLMax; h += 5 {
		for s := 0; s <= HSLMax; s += 5 {
			for l := 0; l <= HSLMax; l += 5 {
				c := HSLFromHSL(h, s, l)
				back := HSLFromRGB(c.Red(), c.Green(), c.Blue())
				if !assert.LessOrEqual(t, abs(back.Luminance()-l), 3, "hsl %d,%d,%d", h, s, l) {
					return
				}
			}
		}
	}
}

func TestHSLSetters(t *testing.T) {
	c := HSLFromRGB(255, 0, 0)

	c.SetLuminance(300)
	assert.Equal(t, HSLMax, c.Luminance())
	assert.Equal(t, []int{255, 255, 255}, []int{c.Red(), c.Green(), c.Blue()})

	c.SetLuminance(-4)
	assert.Equal(t, 0, c.Luminance())
	assert.Equal(t, []int{0, 0, 0}, []int{c.Red(), c.Green(), c.Blue()})

	c = HSLFromHSL(10, 255, 128)
	c.SetHue(-5)
	assert.Equal(t, 250, c.Hue())
	c.SetHue(260)
	assert.Equal(t, 5, c.Hue())

	c.SetSaturation(0)
	assert.Equal(t, c.Red(), c.Green())
	assert.Equal(t, c.Green(), c.Blue())

	c.SetRGB(300, -1, 128)
	assert.Equal(t, []int{255, 0, 128}, []int{c.Red(), c.Green(), c.Blue()})
}

func TestTintLuminance(t *testing.T) {
	assert.Equal(t, 100, tintLuminance(100, 0))
	assert.Equal(t, 50, tintLuminance(100, -0.5))
	assert.Equal(t, 0, tintLuminance(100, -1))
	assert.Equal(t, 178, tintLuminance(100, 0.5))
	assert.Equal(t, HSLMax, tintLuminance(100, 1))
}
