package xl

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// ColorKind tells which variant of a Color is populated.
type ColorKind int

const (
	ColorAuto ColorKind = iota
	ColorIndexed
	ColorRGB
	ColorTheme
)

func (k ColorKind) String() string {
	switch k {
	case ColorAuto:
		return "auto"
	case ColorIndexed:
		return "indexed"
	case ColorRGB:
		return "rgb"
	case ColorTheme:
		return "theme"
	}
	return fmt.Sprintf("ColorKind(%d)", int(k))
}

// ColorContext is the kind of element a color belongs to. It changes how
// the automatic and system colors resolve.
type ColorContext int

const (
	GenericContext ColorContext = iota
	FontContext
	FillContext
	BorderContext
)

// minTint is the smallest tint magnitude that changes a color.
const minTint = 0.005

// Color is a SpreadsheetML color reference: an indexed palette entry, an
// explicit RGB value or a theme slot. Tint is a modifier in [-1, 1] carried
// with any variant. The zero Color is automatic.
type Color struct {
	kind  ColorKind
	index int // palette index or theme slot
	rgb   string
	tint  float64
}

func AutoColor() Color { return Color{} }

func IndexedColor(index int) Color {
	return Color{kind: ColorIndexed, index: index}
}

// RGBColor keeps the value as given; it is normalized on resolution.
func RGBColor(hex string) Color {
	return Color{kind: ColorRGB, rgb: hex}
}

func ThemeColor(slot int, tint float64) Color {
	return Color{kind: ColorTheme, index: slot, tint: tint}
}

func (c Color) Kind() ColorKind { return c.kind }
func (c Color) IsAuto() bool    { return c.kind == ColorAuto }
func (c Color) Tint() float64   { return c.tint }

// Index returns the palette index of an indexed color, -1 otherwise.
func (c Color) Index() int {
	if c.kind != ColorIndexed {
		return -1
	}
	return c.index
}

// Slot returns the theme slot of a theme color, -1 otherwise.
func (c Color) Slot() int {
	if c.kind != ColorTheme {
		return -1
	}
	return c.index
}

// RGB returns the raw rgb attribute of an RGB color.
func (c Color) RGB() string {
	if c.kind != ColorRGB {
		return ""
	}
	return c.rgb
}

func (c Color) WithTint(tint float64) Color {
	c.tint = tint
	return c
}

func (c Color) String() string {
	switch c.kind {
	case ColorIndexed:
		return fmt.Sprintf("indexed(%d)", c.index)
	case ColorRGB:
		return fmt.Sprintf("rgb(%s)", c.rgb)
	case ColorTheme:
		return fmt.Sprintf("theme(%d, %g)", c.index, c.tint)
	}
	return "auto"
}

// Resolved is a color reduced to a palette index and a 6 digit RGB hex.
type Resolved struct {
	Index int
	RGB   string
}

// Unresolved is the sentinel returned by lenient resolution on failure.
var Unresolved = Resolved{Index: -1}

func (r Resolved) IsResolved() bool { return r.Index >= 0 && r.RGB != "" }

// ARGB returns the value in the FFRRGGBB form used by rgb attributes.
func (r Resolved) ARGB() string {
	if r.RGB == "" {
		return ""
	}
	return "FF" + r.RGB
}

// Resolve reduces c to a concrete color. theme may be nil, in which case
// the default Office theme applies.
func (c Color) Resolve(ctx ColorContext, theme Palette) (Resolved, error) {
	var res Resolved
	switch c.kind {
	case ColorAuto:
		if ctx == FillContext {
			res = Resolved{Index: IndexSystemBackground, RGB: legacyPalette[IndexSystemBackground]}
		} else {
			res = Resolved{Index: DefaultForegroundIndex, RGB: legacyPalette[DefaultForegroundIndex]}
		}

	case ColorIndexed:
		if c.index == IndexSystemForeground && ctx == FontContext {
			res = Resolved{Index: DefaultForegroundIndex, RGB: legacyPalette[DefaultForegroundIndex]}
			break
		}
		rgb, err := PaletteRGB(c.index)
		if err != nil {
			return Unresolved, errors.Wrapf(err, "indexed color %d", c.index)
		}
		res = Resolved{Index: c.index, RGB: rgb}

	case ColorRGB:
		rgb, err := NormalizeRGB(c.rgb)
		if err != nil {
			return Unresolved, err
		}
		res = Resolved{Index: NearestIndex(hexTriple(rgb)), RGB: rgb}

	case ColorTheme:
		rgb := themeRGB(theme, c.index)
		res = Resolved{Index: NearestIndex(hexTriple(rgb)), RGB: rgb}

	default:
		return Unresolved, errors.Errorf("invalid color kind %d", int(c.kind))
	}

	if math.Abs(c.tint) > minTint {
		rgb, err := ApplyTint(res.RGB, c.tint)
		if err != nil {
			return Unresolved, err
		}
		res = Resolved{Index: NearestIndex(hexTriple(rgb)), RGB: rgb}
	}
	return res, nil
}

// ResolveOrUnresolved is Resolve that logs failures and returns Unresolved.
func (c Color) ResolveOrUnresolved(ctx ColorContext, theme Palette) Resolved {
	res, err := c.Resolve(ctx, theme)
	if err != nil {
		Log.WithError(err).WithField("color", c.String()).Warn("cannot resolve color")
		return Unresolved
	}
	return res
}

// NormalizeRGB turns "#rgb", "rrggbb", "aarrggbb" and their variants into
// 6 upper-case hex digits. The alpha channel is dropped.
func NormalizeRGB(s string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	case 6:
	case 8:
		v = v[2:]
	default:
		return "", errors.Wrapf(ErrMalformedRGB, "%q", s)
	}
	for i := 0; i < len(v); i++ {
		if hexNibble(v[i]) < 0 {
			return "", errors.Wrapf(ErrMalformedRGB, "%q", s)
		}
	}
	return strings.ToUpper(v), nil
}

// ApplyTint lightens (tint > 0) or darkens (tint < 0) an RGB color by
// scaling its luminance. Tints within ±0.005 leave the color untouched.
func ApplyTint(rgb string, tint float64) (string, error) {
	n, err := NormalizeRGB(rgb)
	if err != nil {
		return "", err
	}
	if math.Abs(tint) <= minTint {
		return n, nil
	}
	if tint < -1 || tint > 1 {
		return "", errors.Errorf("tint %g outside [-1, 1]", tint)
	}
	t := hexTriple(n)
	hsl := HSLFromRGB(t[0], t[1], t[2])
	hsl.SetLuminance(tintLuminance(hsl.Luminance(), tint))
	return rgbHex(hsl.Red(), hsl.Green(), hsl.Blue()), nil
}

func rgbHex(r, g, b int) string {
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

// ParseColorAttrs reads the attributes of a CT_Color element such as
// <color>, <fgColor> or <bgColor>. When several variants are present the
// most specific wins: rgb, then theme, then indexed.
func ParseColorAttrs(se *xmltokenizer.Token) (Color, error) {
	var c Color

	auto, err := attrBool(se, "auto", false)
	if err != nil {
		return c, err
	}
	tint, _, err := attrFloat(se, "tint")
	if err != nil {
		return c, err
	}
	indexed, hasIndexed, err := attrInt(se, "indexed")
	if err != nil {
		return c, err
	}
	theme, hasTheme, err := attrInt(se, "theme")
	if err != nil {
		return c, err
	}
	rgb, hasRGB := attrLookup(se, "rgb")

	switch {
	case hasRGB:
		c = RGBColor(rgb)
	case hasTheme:
		c = ThemeColor(theme, 0)
	case hasIndexed:
		c = IndexedColor(indexed)
	case auto:
		c = AutoColor()
	}
	c.tint = tint
	return c, nil
}

// writeColorAttrs writes the attributes of a CT_Color element; the caller
// opens and closes the tag.
func (c Color) writeColorAttrs(x *xml.Writer) {
	switch c.kind {
	case ColorAuto:
		x.Attr("auto", 1)
	case ColorIndexed:
		x.Attr("indexed", c.index)
	case ColorRGB:
		v := strings.TrimPrefix(c.rgb, "#")
		if n, err := NormalizeRGB(v); err == nil && len(v) != 8 {
			v = "FF" + n
		}
		x.Attr("rgb", strings.ToUpper(v))
	case ColorTheme:
		x.Attr("theme", c.index)
	}
	if c.tint != 0 {
		x.Attr("tint", formatFloat(c.tint))
	}
}

// OOXML returns the color as a <color> element.
func (c Color) OOXML() string {
	return fragment(func(x *xml.Writer) {
		x.OTag("color")
		c.writeColorAttrs(x)
		x.CTag()
	})
}

// ParseColor reads a standalone <color> element.
func ParseColor(r io.Reader) (Color, error) {
	var c Color
	err := parseRoot(r, "color", func(d *decoder, se *xmltokenizer.Token) (err error) {
		c, err = ParseColorAttrs(se)
		if err != nil {
			return err
		}
		return d.walk(se, nil)
	})
	return c, err
}
