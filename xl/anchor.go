package xl

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// Marker is a drawing anchor corner in DrawingML units.
type Marker struct {
	Col    int
	ColOff EMU
	Row    int
	RowOff EMU
}

// BIFF8Marker is an anchor corner in BIFF8 units.
type BIFF8Marker struct {
	Col    int
	ColOff ColFraction
	Row    int
	RowOff RowFraction
}

type Bounds struct {
	From, To Marker
}

type BIFF8Bounds struct {
	From, To BIFF8Marker
}

// ConvertBoundsFromBIFF8 rescales fractional offsets to EMU using the
// size of the column and row each corner sits in.
func ConvertBoundsFromBIFF8(b BIFF8Bounds, m SheetMetrics) Bounds {
	return Bounds{
		From: markerFromBIFF8(b.From, m),
		To:   markerFromBIFF8(b.To, m),
	}
}

// ConvertBoundsToBIFF8 is the inverse of ConvertBoundsFromBIFF8. Offsets
// that run past the end of their cell carry into the following columns
// and rows first.
func ConvertBoundsToBIFF8(b Bounds, m SheetMetrics) BIFF8Bounds {
	return BIFF8Bounds{
		From: markerToBIFF8(b.From, m),
		To:   markerToBIFF8(b.To, m),
	}
}

func markerFromBIFF8(mk BIFF8Marker, m SheetMetrics) Marker {
	w := m.ColumnWidth(mk.Col)
	h := m.RowHeight(mk.Row)
	return Marker{
		Col:    mk.Col,
		ColOff: EMU(math.Round(float64(w) * float64(mk.ColOff) / ColFractionScale)),
		Row:    mk.Row,
		RowOff: EMU(math.Round(float64(h) * float64(mk.RowOff) / RowFractionScale)),
	}
}

func markerToBIFF8(mk Marker, m SheetMetrics) BIFF8Marker {
	col, colOff := carry(mk.Col, mk.ColOff, m.ColumnWidth)
	row, rowOff := carry(mk.Row, mk.RowOff, m.RowHeight)

	var b BIFF8Marker
	b.Col, b.Row = col, row
	if w := m.ColumnWidth(col); w > 0 {
		f := math.Round(float64(colOff) * ColFractionScale / float64(w))
		b.ColOff = ColFraction(clampInt(int(f), 0, ColFractionScale-1))
	}
	if h := m.RowHeight(row); h > 0 {
		f := math.Round(float64(rowOff) * RowFractionScale / float64(h))
		b.RowOff = RowFraction(clampInt(int(f), 0, RowFractionScale-1))
	}
	return b
}

// carry moves whole cells out of off. Negative offsets are clamped to 0.
func carry(idx int, off EMU, size func(int) EMU) (int, EMU) {
	if off < 0 {
		return idx, 0
	}
	for {
		s := size(idx)
		if s <= 0 || off < s {
			return idx, off
		}
		off -= s
		idx++
	}
}

// Anchor editing behaviors (ST_EditAs).
const (
	EditAsTwoCell  = "twoCell"
	EditAsOneCell  = "oneCell"
	EditAsAbsolute = "absolute"
)

// TwoCellAnchor places a shape or a picture between two cell corners.
type TwoCellAnchor struct {
	EditAs  string
	Bounds  Bounds
	Shape   *Shape
	Picture *Picture

	LocksWithSheet  bool
	PrintsWithSheet bool
}

func NewTwoCellAnchor(b Bounds) *TwoCellAnchor {
	return &TwoCellAnchor{
		Bounds:          b,
		LocksWithSheet:  true,
		PrintsWithSheet: true,
	}
}

// SetBIFF8Bounds stores bounds given in BIFF8 units.
func (a *TwoCellAnchor) SetBIFF8Bounds(b BIFF8Bounds, m SheetMetrics) {
	a.Bounds = ConvertBoundsFromBIFF8(b, m)
}

// BIFF8Bounds returns the bounds in BIFF8 units.
func (a *TwoCellAnchor) BIFF8Bounds(m SheetMetrics) BIFF8Bounds {
	return ConvertBoundsToBIFF8(a.Bounds, m)
}

// ParseTwoCellAnchor reads an <xdr:twoCellAnchor> element.
func ParseTwoCellAnchor(r io.Reader) (*TwoCellAnchor, error) {
	var a *TwoCellAnchor
	err := parseRoot(r, "twoCellAnchor", func(d *decoder, se *xmltokenizer.Token) (err error) {
		a, err = parseTwoCellAnchor(d, se)
		return err
	})
	return a, err
}

func parseTwoCellAnchor(d *decoder, se *xmltokenizer.Token) (*TwoCellAnchor, error) {
	a := NewTwoCellAnchor(Bounds{})
	a.EditAs = attrString(se, "editAs")

	err := d.walk(se, func(el *xmltokenizer.Token) (err error) {
		switch localName(el) {
		case "from":
			a.Bounds.From, err = parseMarker(d, el)
		case "to":
			a.Bounds.To, err = parseMarker(d, el)
		case "sp":
			a.Shape, err = parseShape(d, el)
		case "pic":
			a.Picture, err = parsePicture(d, el)
		case "clientData":
			if a.LocksWithSheet, err = attrBool(el, "fLocksWithSheet", true); err != nil {
				return err
			}
			a.PrintsWithSheet, err = attrBool(el, "fPrintsWithSheet", true)
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "twoCellAnchor")
	}
	return a, nil
}

func parseMarker(d *decoder, se *xmltokenizer.Token) (Marker, error) {
	var mk Marker
	err := d.walk(se, func(el *xmltokenizer.Token) error {
		name := localName(el)
		s, err := charData(d, el)
		if err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		v, perr := strconv.ParseInt(s, 10, 64)
		switch name {
		case "col", "colOff", "row", "rowOff":
			if perr != nil {
				return &AttrError{Element: localName(se), Attr: name, Value: s, Err: errors.WithStack(perr)}
			}
		}
		switch name {
		case "col":
			mk.Col = int(v)
		case "colOff":
			mk.ColOff = EMU(v)
		case "row":
			mk.Row = int(v)
		case "rowOff":
			mk.RowOff = EMU(v)
		}
		return nil
	})
	return mk, err
}

func writeMarker(x *xml.Writer, mk Marker) {
	x.OTag("xdr:col").Write(mk.Col).CTag()
	x.OTag("xdr:colOff").Write(int64(mk.ColOff)).CTag()
	x.OTag("xdr:row").Write(mk.Row).CTag()
	x.OTag("xdr:rowOff").Write(int64(mk.RowOff)).CTag()
}

func (a *TwoCellAnchor) WriteXML(x *xml.Writer) {
	x.OTag("+xdr:twoCellAnchor")
	if a.EditAs != "" && a.EditAs != EditAsTwoCell {
		x.Attr("editAs", a.EditAs)
	}

	x.OTag("+xdr:from")
	writeMarker(x, a.Bounds.From)
	x.CTag()

	x.OTag("+xdr:to")
	writeMarker(x, a.Bounds.To)
	x.CTag()

	switch {
	case a.Shape != nil:
		a.Shape.WriteXML(x)
	case a.Picture != nil:
		a.Picture.WriteXML(x)
	}

	x.OTag("+xdr:clientData")
	if !a.LocksWithSheet {
		x.Attr("fLocksWithSheet", 0)
	}
	if !a.PrintsWithSheet {
		x.Attr("fPrintsWithSheet", 0)
	}
	x.CTag()

	x.CTag() // twoCellAnchor
}

func (a *TwoCellAnchor) OOXML() string {
	return fragment(a.WriteXML)
}
