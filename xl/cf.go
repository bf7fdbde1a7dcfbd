package xl

import (
	"io"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// Conditional formatting rule types (ST_CfType) handled explicitly.
const (
	CfCellIs       = "cellIs"
	CfExpression   = "expression"
	CfColorScale   = "colorScale"
	CfContainsText = "containsText"
)

// ConditionalFormatting applies rules to the cells in Sqref.
type ConditionalFormatting struct {
	Sqref string
	Rules []*CfRule
}

// CfRule is a single cfRule element.
type CfRule struct {
	Type       string
	DxfID      *int
	Priority   int
	Operator   string
	StopIfTrue bool
	Text       string
	Formulas   []string
	ColorScale *ColorScale
}

// ColorScale maps a value range onto two or three colors.
type ColorScale struct {
	Cfvos  []Cfvo
	Colors []Color
}

// Cfvo is a conditional format value object: a threshold of a scale.
type Cfvo struct {
	Type string // min, max, num, percent, percentile, formula
	Val  string
}

// Interpolate blends the scale colors at position t in [0, 1]. The
// thresholds are taken as evenly spaced.
func (cs *ColorScale) Interpolate(t float64, theme Palette) (string, error) {
	n := len(cs.Colors)
	if n == 0 {
		return "", errors.New("color scale has no colors")
	}
	rgbs := make([][3]int, n)
	for i, c := range cs.Colors {
		res, err := c.Resolve(FillContext, theme)
		if err != nil {
			return "", err
		}
		rgbs[i] = hexTriple(res.RGB)
	}
	if n == 1 {
		return rgbHex(rgbs[0][0], rgbs[0][1], rgbs[0][2]), nil
	}

	t = min(max(t, 0), 1)
	seg := t * float64(n-1)
	i := min(int(seg), n-2)
	f := seg - float64(i)
	a, b := rgbs[i], rgbs[i+1]
	var out [3]int
	for k := range 3 {
		out[k] = roundInt(float64(a[k]) + (float64(b[k])-float64(a[k]))*f)
	}
	return rgbHex(out[0], out[1], out[2]), nil
}

func ParseConditionalFormatting(r io.Reader) (*ConditionalFormatting, error) {
	var cf *ConditionalFormatting
	err := parseRoot(r, "conditionalFormatting", func(d *decoder, se *xmltokenizer.Token) (err error) {
		cf, err = parseConditionalFormatting(d, se)
		return err
	})
	return cf, err
}

func parseConditionalFormatting(d *decoder, se *xmltokenizer.Token) (*ConditionalFormatting, error) {
	cf := &ConditionalFormatting{Sqref: attrString(se, "sqref")}
	err := d.walk(se, func(el *xmltokenizer.Token) error {
		if localName(el) != "cfRule" {
			return nil
		}
		rule, err := parseCfRule(d, el)
		if err != nil {
			return err
		}
		cf.Rules = append(cf.Rules, rule)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "conditionalFormatting")
	}
	return cf, nil
}

func parseCfRule(d *decoder, se *xmltokenizer.Token) (*CfRule, error) {
	r := &CfRule{
		Type:     attrString(se, "type"),
		Operator: attrString(se, "operator"),
		Text:     attrString(se, "text"),
	}
	var err error
	if dxf, ok, err := attrInt(se, "dxfId"); err != nil {
		return nil, err
	} else if ok {
		r.DxfID = &dxf
	}
	if r.Priority, _, err = attrInt(se, "priority"); err != nil {
		return nil, err
	}
	if r.StopIfTrue, err = attrBool(se, "stopIfTrue", false); err != nil {
		return nil, err
	}

	err = d.walk(se, func(el *xmltokenizer.Token) error {
		switch localName(el) {
		case "formula":
			f, err := charData(d, el)
			if err != nil {
				return err
			}
			r.Formulas = append(r.Formulas, f)
		case "colorScale":
			cs := &ColorScale{}
			r.ColorScale = cs
			return d.walk(el, func(el *xmltokenizer.Token) error {
				switch localName(el) {
				case "cfvo":
					cs.Cfvos = append(cs.Cfvos, Cfvo{
						Type: attrString(el, "type"),
						Val:  attrString(el, "val"),
					})
				case "color":
					c, err := ParseColorAttrs(el)
					if err != nil {
						return err
					}
					cs.Colors = append(cs.Colors, c)
				}
				return nil
			})
		}
		return nil
	})
	return r, err
}

func (cf *ConditionalFormatting) WriteXML(x *xml.Writer) {
	x.OTag("+conditionalFormatting").Attr("sqref", cf.Sqref)
	for _, r := range cf.Rules {
		r.WriteXML(x)
	}
	x.CTag()
}

func (cf *ConditionalFormatting) OOXML() string { return fragment(cf.WriteXML) }

func (r *CfRule) WriteXML(x *xml.Writer) {
	x.OTag("+cfRule").Attr("type", r.Type)
	if r.DxfID != nil {
		x.Attr("dxfId", *r.DxfID)
	}
	x.Attr("priority", r.Priority)
	if r.StopIfTrue {
		x.Attr("stopIfTrue", 1)
	}
	if r.Operator != "" {
		x.Attr("operator", r.Operator)
	}
	if r.Text != "" {
		x.Attr("text", r.Text)
	}
	for _, f := range r.Formulas {
		x.OTag("+formula").String(f).CTag()
	}
	if cs := r.ColorScale; cs != nil {
		x.OTag("+colorScale")
		for _, v := range cs.Cfvos {
			x.OTag("+cfvo").Attr("type", v.Type)
			if v.Val != "" {
				x.Attr("val", v.Val)
			}
			x.CTag()
		}
		for _, c := range cs.Colors {
			x.OTag("+color")
			c.writeColorAttrs(x)
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()
}
