package xl

type Sheet struct {
	Name    string
	Rows    []*Row
	Columns map[int]*Column // 1-based

	Anchors            []*TwoCellAnchor
	AutoFilter         *AutoFilter
	ConditionalFormats []*ConditionalFormatting

	workbook      *Workbook
	nextRowNumber int // 1-based, incremented as we add rows
	lastShapeID   int // highest cNvPr id handed out or seen
}

type Column struct {
	Width float32
}

func (s *Sheet) AddRow() *Row {
	r := &Row{
		sheet:            s,
		rowNumber:        s.nextRowNumber,
		nextColumnNumber: 1,
	}
	s.nextRowNumber++
	s.Rows = append(s.Rows, r)
	return r
}

func (s *Sheet) SetColumnWidth(colNumber int, w float32) {
	if colNumber <= 0 {
		return
	}
	if w <= 0.0 {
		delete(s.Columns, colNumber)
	} else {
		c, exists := s.Columns[colNumber]
		if !exists {
			c = &Column{
				Width: w,
			}
		} else {
			c.Width = w
		}
		s.Columns[colNumber] = c
	}
}

// ColumnWidth implements SheetMetrics. col is 0-based.
func (s *Sheet) ColumnWidth(col int) EMU {
	w := DefaultColumnWidth
	if c, ok := s.Columns[col+1]; ok && c.Width > 0 {
		w = float64(c.Width)
	}
	return ColumnWidthToEMU(w)
}

// RowHeight implements SheetMetrics. row is 0-based.
func (s *Sheet) RowHeight(row int) EMU {
	h := DefaultRowHeight
	if row >= 0 && row < len(s.Rows) && s.Rows[row].Height > 0 {
		h = float64(s.Rows[row].Height)
	}
	return PointsToEMU(h)
}

// AddShape anchors a shape between two corners given in BIFF8 units. The
// corners are converted with the current column widths and row heights.
func (s *Sheet) AddShape(b BIFF8Bounds, shape *Shape) *TwoCellAnchor {
	a := NewTwoCellAnchor(ConvertBoundsFromBIFF8(b, s))
	a.Shape = shape
	s.AddAnchor(a)
	return a
}

// AddPicture anchors an image between two corners given in BIFF8 units.
func (s *Sheet) AddPicture(b BIFF8Bounds, name string, pic *PictureInfo) *TwoCellAnchor {
	a := NewTwoCellAnchor(ConvertBoundsFromBIFF8(b, s))
	a.EditAs = EditAsOneCell
	a.Picture = &Picture{
		Name:  name,
		Media: pic,
	}
	s.AddAnchor(a)
	return a
}

// AddAnchor adds an anchor whose bounds are already in EMU. A shape or
// picture without an id gets the next free one.
func (s *Sheet) AddAnchor(a *TwoCellAnchor) {
	if a.Shape != nil {
		a.Shape.ID = s.shapeID(a.Shape.ID)
	}
	if a.Picture != nil {
		a.Picture.ID = s.shapeID(a.Picture.ID)
	}
	s.Anchors = append(s.Anchors, a)
}

// shapeID keeps an explicit id and moves the counter past it. Generated
// ids start at 2; 1 belongs to the drawing itself.
func (s *Sheet) shapeID(id int) int {
	if id <= 0 {
		id = max(s.lastShapeID, 1) + 1
	}
	s.lastShapeID = max(s.lastShapeID, id)
	return id
}

// SetAutoFilter installs an autoFilter over ref, replacing any previous one.
func (s *Sheet) SetAutoFilter(ref string) *AutoFilter {
	s.AutoFilter = &AutoFilter{Ref: ref}
	return s.AutoFilter
}

// AddConditionalFormatting adds rules over sqref. Rules without a priority
// are numbered after the ones already on the sheet.
func (s *Sheet) AddConditionalFormatting(sqref string, rules ...*CfRule) *ConditionalFormatting {
	next := 1
	for _, cf := range s.ConditionalFormats {
		for _, r := range cf.Rules {
			next = max(next, r.Priority+1)
		}
	}
	for _, r := range rules {
		if r.Priority == 0 {
			r.Priority = next
			next++
		}
	}
	cf := &ConditionalFormatting{Sqref: sqref, Rules: rules}
	s.ConditionalFormats = append(s.ConditionalFormats, cf)
	return cf
}
