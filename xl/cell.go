package xl

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/pkg/errors"
)

type Cell struct {
	row          *Row
	columnNumber int // 1-based
	coord        string
	typ          CellType
	v            string
	picture      *PictureInfo
	style        *Style
}

type PictureInfo struct {
	Extension string
	Blob      []byte
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeBool
	CellTypeDate
	CellTypeError
	CellTypeFormula
	CellTypeInlineString
	CellTypeNumber
	CellTypeSharedString

	// internal
	cellTypePicture
)

func (c *Cell) SetBool(v bool) {
	c.typ = CellTypeBool
	if v {
		c.v = "1"
	} else {
		c.v = "0"
	}
}

func (c *Cell) SetInt(v int64) {
	c.typ = CellTypeNumber
	c.v = fmt.Sprintf("%d", v)
}

func (c *Cell) SetFloat(v float64) {
	c.typ = CellTypeNumber
	c.v = strconv.FormatFloat(v, 'g', -1, 64)
}

func (c *Cell) SetStr(v string) {
	c.typ = CellTypeSharedString
	c.v = v
}

// Error values a cell may hold (ST_CellError).
var cellErrors = []string{"#NULL!", "#DIV/0!", "#VALUE!", "#REF!", "#NAME?", "#NUM!", "#N/A"}

// SetError stores one of the spreadsheet error values.
func (c *Cell) SetError(code string) error {
	if !slices.Contains(cellErrors, code) {
		return errors.Errorf("%s: unknown cell error %q", c.coord, code)
	}
	c.typ = CellTypeError
	c.v = code
	return nil
}

func (c *Cell) SetPicture(p *PictureInfo) {
	c.typ = cellTypePicture
	c.picture = p
}

// SetStyle assigns formatting to the cell. Cells sharing equal fonts, fills
// and borders share one style record in the written file.
func (c *Cell) SetStyle(s *Style) {
	c.style = s
}

func (c *Cell) Style() *Style {
	return c.style
}

// Coord returns the A1 reference of the cell.
func (c *Cell) Coord() string {
	return c.coord
}

// Column returns the 1-based column number.
func (c *Cell) Column() int {
	return c.columnNumber
}

func (c *Cell) Type() CellType {
	return c.typ
}

// Value returns the stored value in its serialized form.
func (c *Cell) Value() string {
	return c.v
}
