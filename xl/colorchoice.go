package xl

import (
	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// ColorChoiceKind selects the DrawingML color element.
type ColorChoiceKind int

const (
	ChoiceRGB    ColorChoiceKind = iota // a:srgbClr
	ChoiceScheme                        // a:schemeClr
	ChoiceSystem                        // a:sysClr
	ChoicePreset                        // a:prstClr
)

// Color transforms understood by ColorChoice, in 1/1000 of a percent.
const (
	ModTint   = "tint"
	ModShade  = "shade"
	ModLumMod = "lumMod"
	ModLumOff = "lumOff"
	ModSatMod = "satMod"
	ModAlpha  = "alpha"
)

const percentScale = 100000

// ColorMod is a single color transform child such as <a:lumMod val="75000"/>.
type ColorMod struct {
	Name string
	Val  int
}

// ColorChoice is a DrawingML color (EG_ColorChoice) with its transforms.
type ColorChoice struct {
	Kind      ColorChoiceKind
	Value     string // hex, scheme name, system color name or preset name
	LastColor string // cached RGB of a system color
	Mods      []ColorMod
}

func SchemeColor(name string, mods ...ColorMod) *ColorChoice {
	return &ColorChoice{Kind: ChoiceScheme, Value: name, Mods: mods}
}

func SRGBColor(hex string, mods ...ColorMod) *ColorChoice {
	return &ColorChoice{Kind: ChoiceRGB, Value: hex, Mods: mods}
}

var presetColors = map[string]string{
	"black":   "000000",
	"white":   "FFFFFF",
	"red":     "FF0000",
	"green":   "008000",
	"lime":    "00FF00",
	"blue":    "0000FF",
	"yellow":  "FFFF00",
	"cyan":    "00FFFF",
	"magenta": "FF00FF",
	"gray":    "808080",
	"silver":  "C0C0C0",
	"maroon":  "800000",
	"navy":    "000080",
	"olive":   "808000",
	"purple":  "800080",
	"teal":    "008080",
	"orange":  "FFA500",
}

// Resolve computes the RGB value of the choice with its transforms applied.
func (cc *ColorChoice) Resolve(theme Palette) (string, error) {
	var base string
	switch cc.Kind {
	case ChoiceRGB:
		base = cc.Value
	case ChoiceScheme:
		slot, ok := SlotByName(cc.Value)
		if !ok {
			return "", errors.Errorf("unknown scheme color %q", cc.Value)
		}
		base = themeRGB(theme, slot)
	case ChoiceSystem:
		base = cc.LastColor
		if base == "" {
			base = systemColorRGB(cc.Value)
		}
		if base == "" {
			return "", errors.Errorf("unknown system color %q", cc.Value)
		}
	case ChoicePreset:
		var ok bool
		if base, ok = presetColors[cc.Value]; !ok {
			return "", errors.Errorf("unknown preset color %q", cc.Value)
		}
	default:
		return "", errors.Errorf("invalid color choice kind %d", int(cc.Kind))
	}

	rgb, err := NormalizeRGB(base)
	if err != nil {
		return "", err
	}
	if len(cc.Mods) == 0 {
		return rgb, nil
	}

	t := hexTriple(rgb)
	hsl := HSLFromRGB(t[0], t[1], t[2])
	for _, m := range cc.Mods {
		f := float64(m.Val) / percentScale
		switch m.Name {
		case ModTint:
			hsl.SetLuminance(tintLuminance(hsl.Luminance(), 1-f))
		case ModShade:
			hsl.SetLuminance(tintLuminance(hsl.Luminance(), f-1))
		case ModLumMod:
			hsl.SetLuminance(roundInt(float64(hsl.Luminance()) * f))
		case ModLumOff:
			hsl.SetLuminance(hsl.Luminance() + roundInt(f*HSLMax))
		case ModSatMod:
			hsl.SetSaturation(roundInt(float64(hsl.Saturation()) * f))
		}
	}
	return rgbHex(hsl.Red(), hsl.Green(), hsl.Blue()), nil
}

// ToColor converts the choice into a SpreadsheetML color. Scheme colors
// without transforms stay theme references; everything else is resolved.
func (cc *ColorChoice) ToColor(theme Palette) (Color, error) {
	if cc.Kind == ChoiceScheme && len(cc.Mods) == 0 {
		if slot, ok := SlotByName(cc.Value); ok {
			return ThemeColor(slot, 0), nil
		}
	}
	rgb, err := cc.Resolve(theme)
	if err != nil {
		return Color{}, err
	}
	return RGBColor(rgb), nil
}

func roundInt(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

// parseColorChoice reads one EG_ColorChoice element. It returns nil for
// elements that are not colors.
func parseColorChoice(d *decoder, se *xmltokenizer.Token) (*ColorChoice, error) {
	cc := &ColorChoice{}
	switch localName(se) {
	case "srgbClr":
		cc.Kind = ChoiceRGB
	case "schemeClr":
		cc.Kind = ChoiceScheme
	case "sysClr":
		cc.Kind = ChoiceSystem
		cc.LastColor = attrString(se, "lastClr")
	case "prstClr":
		cc.Kind = ChoicePreset
	default:
		return nil, nil
	}
	cc.Value = attrString(se, "val")

	err := d.walk(se, func(el *xmltokenizer.Token) error {
		name := localName(el)
		switch name {
		case ModTint, ModShade, ModLumMod, ModLumOff, ModSatMod, ModAlpha:
		default:
			return nil
		}
		v, _, err := attrInt(el, "val")
		if err != nil {
			return err
		}
		cc.Mods = append(cc.Mods, ColorMod{Name: name, Val: v})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cc, nil
}

// parseSolidFill returns the color inside an <a:solidFill> element.
func parseSolidFill(d *decoder, se *xmltokenizer.Token) (*ColorChoice, error) {
	var cc *ColorChoice
	err := d.walk(se, func(el *xmltokenizer.Token) (err error) {
		if cc != nil {
			return nil
		}
		cc, err = parseColorChoice(d, el)
		return err
	})
	return cc, err
}

func (cc *ColorChoice) WriteXML(x *xml.Writer) {
	switch cc.Kind {
	case ChoiceScheme:
		x.OTag("a:schemeClr").Attr("val", cc.Value)
	case ChoiceSystem:
		x.OTag("a:sysClr").Attr("val", cc.Value)
		if cc.LastColor != "" {
			x.Attr("lastClr", cc.LastColor)
		}
	case ChoicePreset:
		x.OTag("a:prstClr").Attr("val", cc.Value)
	default:
		v := cc.Value
		if n, err := NormalizeRGB(v); err == nil {
			v = n
		}
		x.OTag("a:srgbClr").Attr("val", v)
	}
	for _, m := range cc.Mods {
		switch m.Name {
		case ModTint:
			x.OTag("a:tint")
		case ModShade:
			x.OTag("a:shade")
		case ModLumMod:
			x.OTag("a:lumMod")
		case ModLumOff:
			x.OTag("a:lumOff")
		case ModSatMod:
			x.OTag("a:satMod")
		case ModAlpha:
			x.OTag("a:alpha")
		default:
			continue
		}
		x.Attr("val", m.Val).CTag()
	}
	x.CTag()
}

func writeSolidFill(x *xml.Writer, cc *ColorChoice) {
	x.OTag("+a:solidFill")
	cc.WriteXML(x)
	x.CTag()
}
