package xl

import (
	"io"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// Pattern types (ST_PatternType) most commonly used.
const (
	PatternNone    = "none"
	PatternSolid   = "solid"
	PatternGray125 = "gray125"
)

// Fill is a CT_Fill element holding either a pattern or a gradient.
type Fill struct {
	PatternType string
	FgColor     *Color
	BgColor     *Color

	Gradient *GradientFill
}

type GradientFill struct {
	Degree float64
	Stops  []GradientStop
}

type GradientStop struct {
	Position float64
	Color    Color
}

// SolidFill returns a solid pattern fill of the given color.
func SolidFill(c Color) *Fill {
	return &Fill{PatternType: PatternSolid, FgColor: &c}
}

func (f *Fill) IsEmpty() bool {
	return f.Gradient == nil && (f.PatternType == "" || f.PatternType == PatternNone) &&
		f.FgColor == nil && f.BgColor == nil
}

// Background resolves the visible color of the fill: the foreground of a
// solid pattern, otherwise the background color.
func (f *Fill) Background(theme Palette) (Resolved, error) {
	if f.Gradient != nil && len(f.Gradient.Stops) > 0 {
		return f.Gradient.Stops[0].Color.Resolve(FillContext, theme)
	}
	c := f.BgColor
	if f.PatternType == PatternSolid && f.FgColor != nil {
		c = f.FgColor
	}
	if c == nil {
		return AutoColor().Resolve(FillContext, theme)
	}
	return c.Resolve(FillContext, theme)
}

func ParseFill(r io.Reader) (*Fill, error) {
	var f *Fill
	err := parseRoot(r, "fill", func(d *decoder, se *xmltokenizer.Token) (err error) {
		f, err = parseFill(d, se)
		return err
	})
	return f, err
}

func parseFill(d *decoder, se *xmltokenizer.Token) (*Fill, error) {
	f := &Fill{}
	err := d.walk(se, func(el *xmltokenizer.Token) error {
		switch localName(el) {
		case "patternFill":
			f.PatternType = attrString(el, "patternType")
			return d.walk(el, func(el *xmltokenizer.Token) error {
				var dst **Color
				switch localName(el) {
				case "fgColor":
					dst = &f.FgColor
				case "bgColor":
					dst = &f.BgColor
				default:
					return nil
				}
				c, err := ParseColorAttrs(el)
				if err != nil {
					return err
				}
				*dst = &c
				return nil
			})
		case "gradientFill":
			g := &GradientFill{}
			var err error
			if g.Degree, _, err = attrFloat(el, "degree"); err != nil {
				return err
			}
			f.Gradient = g
			return d.walk(el, func(el *xmltokenizer.Token) error {
				if localName(el) != "stop" {
					return nil
				}
				pos, _, err := attrFloat(el, "position")
				if err != nil {
					return err
				}
				stop := GradientStop{Position: pos}
				err = d.walk(el, func(el *xmltokenizer.Token) (err error) {
					if localName(el) == "color" {
						stop.Color, err = ParseColorAttrs(el)
					}
					return err
				})
				if err != nil {
					return err
				}
				g.Stops = append(g.Stops, stop)
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "fill")
	}
	return f, nil
}

func (f *Fill) WriteXML(x *xml.Writer) {
	x.OTag("+fill")
	if g := f.Gradient; g != nil {
		x.OTag("+gradientFill")
		if g.Degree != 0 {
			x.Attr("degree", formatFloat(g.Degree))
		}
		for _, s := range g.Stops {
			x.OTag("+stop").Attr("position", formatFloat(s.Position))
			x.OTag("color")
			s.Color.writeColorAttrs(x)
			x.CTag()
			x.CTag()
		}
		x.CTag()
	} else {
		pt := f.PatternType
		if pt == "" {
			pt = PatternNone
		}
		x.OTag("+patternFill").Attr("patternType", pt)
		if f.FgColor != nil {
			x.OTag("fgColor")
			f.FgColor.writeColorAttrs(x)
			x.CTag()
		}
		if f.BgColor != nil {
			x.OTag("bgColor")
			f.BgColor.writeColorAttrs(x)
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()
}

func (f *Fill) OOXML() string { return fragment(f.WriteXML) }

func (f *Fill) key() string { return f.OOXML() }
