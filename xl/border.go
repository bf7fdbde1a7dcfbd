package xl

import (
	"io"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// BorderStyle is an ST_BorderStyle value.
type BorderStyle string

const (
	BorderNone             BorderStyle = "none"
	BorderThin             BorderStyle = "thin"
	BorderMedium           BorderStyle = "medium"
	BorderDashed           BorderStyle = "dashed"
	BorderDotted           BorderStyle = "dotted"
	BorderThick            BorderStyle = "thick"
	BorderDouble           BorderStyle = "double"
	BorderHair             BorderStyle = "hair"
	BorderMediumDashed     BorderStyle = "mediumDashed"
	BorderDashDot          BorderStyle = "dashDot"
	BorderMediumDashDot    BorderStyle = "mediumDashDot"
	BorderDashDotDot       BorderStyle = "dashDotDot"
	BorderMediumDashDotDot BorderStyle = "mediumDashDotDot"
	BorderSlantDashDot     BorderStyle = "slantDashDot"
)

// borderStyles is indexed by the legacy BIFF8 line style code.
var borderStyles = [...]struct {
	style BorderStyle
	size  int
}{
	{BorderNone, 0},
	{BorderThin, 1},
	{BorderMedium, 2},
	{BorderDashed, 1},
	{BorderDotted, 1},
	{BorderThick, 3},
	{BorderDouble, 3},
	{BorderHair, 1},
	{BorderMediumDashed, 2},
	{BorderDashDot, 1},
	{BorderMediumDashDot, 2},
	{BorderDashDotDot, 1},
	{BorderMediumDashDotDot, 2},
	{BorderSlantDashDot, 2},
}

// Code returns the legacy line style code, or -1 for an unknown style.
// The empty style is the same as none.
func (s BorderStyle) Code() int {
	if s == "" {
		return 0
	}
	for i, e := range borderStyles {
		if e.style == s {
			return i
		}
	}
	return -1
}

// Size returns the line weight: 0 none, 1 thin, 2 medium, 3 thick.
// Unknown styles report -1.
func (s BorderStyle) Size() int {
	c := s.Code()
	if c < 0 {
		return -1
	}
	return borderStyles[c].size
}

func (s BorderStyle) Valid() bool { return s.Code() >= 0 }

// ParseBorderStyle validates a style attribute.
func ParseBorderStyle(s string) (BorderStyle, error) {
	st := BorderStyle(s)
	if !st.Valid() {
		return "", errors.Wrapf(ErrUnknownBorderStyle, "%q", s)
	}
	if st == "" {
		st = BorderNone
	}
	return st, nil
}

// BorderStyleFromCode maps a legacy line style code back to its name.
func BorderStyleFromCode(code int) (BorderStyle, error) {
	if code < 0 || code >= len(borderStyles) {
		return "", errors.Wrapf(ErrUnknownBorderStyle, "code %d", code)
	}
	return borderStyles[code].style, nil
}

// BorderSide is one edge of a cell border.
type BorderSide struct {
	Style BorderStyle
	Color *Color
}

func (bs BorderSide) IsEmpty() bool {
	return (bs.Style == "" || bs.Style == BorderNone) && bs.Color == nil
}

// Border is a CT_Border element.
type Border struct {
	Left, Right, Top, Bottom, Diagonal BorderSide

	DiagonalUp   bool
	DiagonalDown bool
}

func (b *Border) IsEmpty() bool {
	return b.Left.IsEmpty() && b.Right.IsEmpty() && b.Top.IsEmpty() &&
		b.Bottom.IsEmpty() && b.Diagonal.IsEmpty() && !b.DiagonalUp && !b.DiagonalDown
}

// SetAll applies one style and color to the four outer edges.
func (b *Border) SetAll(style BorderStyle, color *Color) {
	for _, s := range []*BorderSide{&b.Left, &b.Right, &b.Top, &b.Bottom} {
		s.Style = style
		s.Color = color
	}
}

func ParseBorder(r io.Reader) (*Border, error) {
	var b *Border
	err := parseRoot(r, "border", func(d *decoder, se *xmltokenizer.Token) (err error) {
		b, err = parseBorder(d, se)
		return err
	})
	return b, err
}

func parseBorder(d *decoder, se *xmltokenizer.Token) (*Border, error) {
	b := &Border{}
	var err error
	if b.DiagonalUp, err = attrBool(se, "diagonalUp", false); err != nil {
		return nil, err
	}
	if b.DiagonalDown, err = attrBool(se, "diagonalDown", false); err != nil {
		return nil, err
	}

	err = d.walk(se, func(el *xmltokenizer.Token) error {
		var side *BorderSide
		switch localName(el) {
		case "left", "start":
			side = &b.Left
		case "right", "end":
			side = &b.Right
		case "top":
			side = &b.Top
		case "bottom":
			side = &b.Bottom
		case "diagonal":
			side = &b.Diagonal
		default:
			return nil
		}
		return parseBorderSide(d, el, side)
	})
	if err != nil {
		return nil, errors.Wrap(err, "border")
	}
	return b, nil
}

func parseBorderSide(d *decoder, se *xmltokenizer.Token, side *BorderSide) error {
	if v, ok := attrLookup(se, "style"); ok {
		st, err := ParseBorderStyle(v)
		if err != nil {
			return attrError(localName(se), "style", v, err)
		}
		side.Style = st
	}
	return d.walk(se, func(el *xmltokenizer.Token) error {
		if localName(el) != "color" {
			return nil
		}
		c, err := ParseColorAttrs(el)
		if err != nil {
			return err
		}
		side.Color = &c
		return nil
	})
}

func (bs BorderSide) writeBody(x *xml.Writer) {
	if bs.Style != "" && bs.Style != BorderNone {
		x.Attr("style", string(bs.Style))
	}
	if bs.Color != nil {
		x.OTag("color")
		bs.Color.writeColorAttrs(x)
		x.CTag()
	}
}

func (b *Border) WriteXML(x *xml.Writer) {
	x.OTag("+border")
	if b.DiagonalUp {
		x.Attr("diagonalUp", 1)
	}
	if b.DiagonalDown {
		x.Attr("diagonalDown", 1)
	}

	x.OTag("+left")
	b.Left.writeBody(x)
	x.CTag()
	x.OTag("+right")
	b.Right.writeBody(x)
	x.CTag()
	x.OTag("+top")
	b.Top.writeBody(x)
	x.CTag()
	x.OTag("+bottom")
	b.Bottom.writeBody(x)
	x.CTag()
	x.OTag("+diagonal")
	b.Diagonal.writeBody(x)
	x.CTag()

	x.CTag()
}

func (b *Border) OOXML() string { return fragment(b.WriteXML) }

func (b *Border) key() string { return b.OOXML() }
