package main

import (
	"github.com/adnsv/go-ooxml/xl"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// workbookMetrics reads column widths and row heights of one sheet of an
// existing xlsx file.
type workbookMetrics struct {
	f     *excelize.File
	sheet string
	def   xl.FixedMetrics
}

func openMetrics(path, sheet string, def xl.FixedMetrics) (*workbookMetrics, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, errors.Errorf("%s: no sheet named %q", path, sheet)
	}
	return &workbookMetrics{f: f, sheet: sheet, def: def}, nil
}

func (m *workbookMetrics) Close() error { return m.f.Close() }

// ColumnWidth implements xl.SheetMetrics; col is 0-based.
func (m *workbookMetrics) ColumnWidth(col int) xl.EMU {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return m.def.Width
	}
	w, err := m.f.GetColWidth(m.sheet, name)
	if err != nil {
		logrus.WithError(err).WithField("col", name).Debug("column width")
		return m.def.Width
	}
	return xl.ColumnWidthToEMU(w)
}

// RowHeight implements xl.SheetMetrics; row is 0-based.
func (m *workbookMetrics) RowHeight(row int) xl.EMU {
	h, err := m.f.GetRowHeight(m.sheet, row+1)
	if err != nil {
		logrus.WithError(err).WithField("row", row+1).Debug("row height")
		return m.def.Height
	}
	return xl.PointsToEMU(h)
}
