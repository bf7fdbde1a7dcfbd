package xl

import "math"

// HSL scale constants. Hue, saturation and luminance share the 0..255 range
// of the RGB components.
const (
	HSLMax       = 255
	RGBMax       = 255
	UndefinedHue = HSLMax * 2 / 3
)

// HSL is a color held both as hue/saturation/luminance and as the
// equivalent 8-bit RGB triple. Setters keep the two in sync.
type HSL struct {
	hue, sat, lum    int
	red, green, blue int
}

// HSLFromRGB converts an RGB triple.
func HSLFromRGB(r, g, b int) HSL {
	var c HSL
	c.SetRGB(r, g, b)
	return c
}

// HSLFromHSL builds a color from hue, saturation and luminance.
func HSLFromHSL(h, s, l int) HSL {
	var c HSL
	c.setHSL(h, s, l)
	return c
}

func (c *HSL) Hue() int        { return c.hue }
func (c *HSL) Saturation() int { return c.sat }
func (c *HSL) Luminance() int  { return c.lum }
func (c *HSL) Red() int        { return c.red }
func (c *HSL) Green() int      { return c.green }
func (c *HSL) Blue() int       { return c.blue }

func (c *HSL) SetHue(h int) {
	for h < 0 {
		h += HSLMax
	}
	for h > HSLMax {
		h -= HSLMax
	}
	c.setHSL(h, c.sat, c.lum)
}

func (c *HSL) SetSaturation(s int) { c.setHSL(c.hue, clampInt(s, 0, HSLMax), c.lum) }
func (c *HSL) SetLuminance(l int)  { c.setHSL(c.hue, c.sat, clampInt(l, 0, HSLMax)) }

// SetRGB replaces the color and recomputes hue, saturation and luminance.
func (c *HSL) SetRGB(r, g, b int) {
	r, g, b = clampInt(r, 0, RGBMax), clampInt(g, 0, RGBMax), clampInt(b, 0, RGBMax)
	c.red, c.green, c.blue = r, g, b

	cmax := max(r, g, b)
	cmin := min(r, g, b)
	minus := cmax - cmin
	plus := cmax + cmin

	c.lum = (plus*HSLMax + RGBMax) / (2 * RGBMax)

	if cmax == cmin {
		c.sat = 0
		c.hue = UndefinedHue
		return
	}

	if c.lum <= HSLMax/2 {
		c.sat = int((float64(minus*HSLMax) + 0.5) / float64(plus))
	} else {
		c.sat = int((float64(minus*HSLMax) + 0.5) / float64(2*RGBMax-plus))
	}

	delta := func(v int) int {
		return int((float64((cmax-v)*(HSLMax/6)) + 0.5) / float64(minus))
	}
	rd, gd, bd := delta(r), delta(g), delta(b)

	switch cmax {
	case r:
		c.hue = bd - gd
	case g:
		c.hue = HSLMax/3 + rd - bd
	default:
		c.hue = 2*HSLMax/3 + gd - rd
	}
	if c.hue < 0 {
		c.hue += HSLMax
	}
}

func (c *HSL) setHSL(h, s, l int) {
	c.hue, c.sat, c.lum = h, s, l

	if s == 0 {
		v := l * RGBMax / HSLMax
		c.red, c.green, c.blue = v, v, v
		return
	}

	var m2 int
	if l <= HSLMax/2 {
		m2 = (l*(HSLMax+s) + HSLMax/2) / HSLMax
	} else {
		m2 = l + s - (l*s+HSLMax/2)/HSLMax
	}
	m1 := 2*l - m2

	channel := func(hue int) int {
		v := (hueToRGB(m1, m2, hue)*RGBMax + HSLMax/2) / HSLMax
		return clampInt(v, 0, RGBMax)
	}
	c.red = channel(h + HSLMax/3)
	c.green = channel(h)
	c.blue = channel(h - HSLMax/3)
}

func hueToRGB(m1, m2, hue int) int {
	if hue < 0 {
		hue += HSLMax
	} else if hue > HSLMax {
		hue -= HSLMax
	}
	switch {
	case hue < HSLMax/6:
		return m1 + ((m2-m1)*hue+HSLMax/12)/(HSLMax/6)
	case hue < HSLMax/2:
		return m2
	case hue < HSLMax*2/3:
		return m1 + ((m2-m1)*(HSLMax*2/3-hue)+HSLMax/12)/(HSLMax/6)
	}
	return m1
}

// tintLuminance scales a 0..HSLMax luminance by an OOXML tint in [-1, 1].
// Negative tints darken multiplicatively, positive tints move towards white.
func tintLuminance(lum int, tint float64) int {
	l := float64(lum)
	if tint < 0 {
		l = l * (1 + tint)
	} else {
		l = l*(1-tint) + (HSLMax - HSLMax*(1-tint))
	}
	return clampInt(int(math.Round(l)), 0, HSLMax)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
