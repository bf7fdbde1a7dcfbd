package xl

import "math"

// EMU is an English Metric Unit, the DrawingML coordinate unit.
type EMU int64

// ColFraction is a BIFF8 column offset in 1/1024 of the column width.
type ColFraction int

// RowFraction is a BIFF8 row offset in 1/256 of the row height.
type RowFraction int

const (
	EMUPerInch  EMU = 914400
	EMUPerPoint EMU = 12700
	EMUPerPixel EMU = 9525 // at 96 dpi

	ColFractionScale = 1024
	RowFractionScale = 256

	// MaxDigitWidth is the pixel width of the widest digit of the default
	// font (Calibri 11).
	MaxDigitWidth = 7

	DefaultColumnWidth = 9.140625 // stored width of 8.43 characters
	DefaultRowHeight   = 15.0     // points
)

func PointsToEMU(pt float64) EMU { return EMU(math.Round(pt * float64(EMUPerPoint))) }
func PixelsToEMU(px int) EMU     { return EMU(px) * EMUPerPixel }

func (e EMU) Pixels() int     { return int(e / EMUPerPixel) }
func (e EMU) Points() float64 { return float64(e) / float64(EMUPerPoint) }
func (e EMU) Inches() float64 { return float64(e) / float64(EMUPerInch) }

// ColumnWidthToPixels converts a stored column width (the width attribute
// of <col>) to pixels using the ECMA-376 formula for the default font.
func ColumnWidthToPixels(width float64) int {
	if width <= 0 {
		return 0
	}
	return int((256*width + math.Trunc(128/MaxDigitWidth)) / 256 * MaxDigitWidth)
}

// ColumnWidthToEMU converts a stored column width to EMU.
func ColumnWidthToEMU(width float64) EMU {
	return PixelsToEMU(ColumnWidthToPixels(width))
}

// SheetMetrics reports the size of columns and rows. Indices are 0-based,
// matching the col and row elements of a drawing anchor.
type SheetMetrics interface {
	ColumnWidth(col int) EMU
	RowHeight(row int) EMU
}

// FixedMetrics gives every column and every row the same size.
type FixedMetrics struct {
	Width  EMU
	Height EMU
}

// DefaultMetrics returns the metrics of an unformatted sheet.
func DefaultMetrics() FixedMetrics {
	return FixedMetrics{
		Width:  ColumnWidthToEMU(DefaultColumnWidth),
		Height: PointsToEMU(DefaultRowHeight),
	}
}

func (m FixedMetrics) ColumnWidth(int) EMU { return m.Width }
func (m FixedMetrics) RowHeight(int) EMU   { return m.Height }
