package xl

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Row struct {
	Cells []*Cell

	Height float32 // points, the sheet default when 0

	sheet            *Sheet
	rowNumber        int // 1-based
	nextColumnNumber int // 1-based, incremented as we add cells
}

func (r *Row) AddCell() *Cell {
	c := &Cell{
		row:          r,
		columnNumber: r.nextColumnNumber,
		coord:        CellCoordAsString(r.nextColumnNumber, r.rowNumber),
	}
	r.nextColumnNumber++
	r.Cells = append(r.Cells, c)
	return c
}

// Number returns the 1-based row number.
func (r *Row) Number() int { return r.rowNumber }

func ColumnNumberAsLetters(n int) string {
	if n < 1 {
		panic("invalid column number")
	}
	var s string
	for n > 0 {
		s = string(rune((n-1)%26+65)) + s
		n = (n - 1) / 26
	}
	return s
}

// ColumnLettersAsNumber is the inverse of ColumnNumberAsLetters. Letters
// are case insensitive; the result is 0 for anything else.
func ColumnLettersAsNumber(s string) int {
	if s == "" || len(s) > 3 {
		return 0
	}
	n := 0
	for _, ch := range strings.ToUpper(s) {
		if ch < 'A' || ch > 'Z' {
			return 0
		}
		n = n*26 + int(ch-'A') + 1
	}
	return n
}

func CellCoordAsString(col, row int) string {
	if row < 0 {
		panic("invalid row number")
	}
	return ColumnNumberAsLetters(col) + strconv.Itoa(row)
}

// ParseCellCoord splits an A1 reference into 1-based column and row
// numbers. Absolute markers ($A$1) are accepted.
func ParseCellCoord(s string) (col, row int, err error) {
	v := strings.ReplaceAll(s, "$", "")
	i := strings.IndexFunc(v, func(r rune) bool { return r >= '0' && r <= '9' })
	if i <= 0 {
		return 0, 0, errors.Wrapf(ErrMalformedCoord, "%q", s)
	}
	col = ColumnLettersAsNumber(v[:i])
	row, err = strconv.Atoi(v[i:])
	if col == 0 || err != nil || row < 1 {
		return 0, 0, errors.Wrapf(ErrMalformedCoord, "%q", s)
	}
	return col, row, nil
}
