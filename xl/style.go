package xl

import "github.com/adnsv/srw/xml"

// Style groups the formatting records a cell refers to. Nil members use
// the workbook defaults.
type Style struct {
	Font   *Font
	Fill   *Fill
	Border *Border
}

func (s *Style) IsDefault() bool {
	return s == nil ||
		(s.Font == nil || s.Font.IsDefault()) &&
			(s.Fill == nil || s.Fill.IsEmpty()) &&
			(s.Border == nil || s.Border.IsEmpty())
}

// styleTable assigns stable ids to distinct fonts, fills, borders and
// their combinations while sheets are written.
type styleTable struct {
	fonts   []*Font
	fills   []*Fill
	borders []*Border
	xfs     []xfRecord

	fontIDs   map[string]int
	fillIDs   map[string]int
	borderIDs map[string]int
	xfIDs     map[xfRecord]int
}

type xfRecord struct {
	font, fill, border int
}

func newStyleTable() *styleTable {
	t := &styleTable{
		fontIDs:   map[string]int{},
		fillIDs:   map[string]int{},
		borderIDs: map[string]int{},
		xfIDs:     map[xfRecord]int{},
	}
	// Records every styles part must start with.
	t.font(&Font{})
	t.fill(&Fill{PatternType: PatternNone})
	t.fill(&Fill{PatternType: PatternGray125})
	t.border(&Border{})
	t.xf(xfRecord{})
	return t
}

func (t *styleTable) font(f *Font) int {
	k := f.key()
	if id, ok := t.fontIDs[k]; ok {
		return id
	}
	id := len(t.fonts)
	t.fonts = append(t.fonts, f)
	t.fontIDs[k] = id
	return id
}

func (t *styleTable) fill(f *Fill) int {
	k := f.key()
	if id, ok := t.fillIDs[k]; ok {
		return id
	}
	id := len(t.fills)
	t.fills = append(t.fills, f)
	t.fillIDs[k] = id
	return id
}

func (t *styleTable) border(b *Border) int {
	k := b.key()
	if id, ok := t.borderIDs[k]; ok {
		return id
	}
	id := len(t.borders)
	t.borders = append(t.borders, b)
	t.borderIDs[k] = id
	return id
}

func (t *styleTable) xf(r xfRecord) int {
	if id, ok := t.xfIDs[r]; ok {
		return id
	}
	id := len(t.xfs)
	t.xfs = append(t.xfs, r)
	t.xfIDs[r] = id
	return id
}

// index returns the cellXfs index of s.
func (t *styleTable) index(s *Style) int {
	if s.IsDefault() {
		return 0
	}
	var r xfRecord
	if s.Font != nil {
		r.font = t.font(s.Font)
	}
	if s.Fill != nil {
		r.fill = t.fill(s.Fill)
	}
	if s.Border != nil {
		r.border = t.border(s.Border)
	}
	return t.xf(r)
}

// WriteXML writes the styleSheet element of the styles part.
func (t *styleTable) WriteXML(x *xml.Writer) {
	x.OTag("styleSheet")
	x.Attr("xmlns", nsMain)

	x.OTag("+fonts").Attr("count", len(t.fonts))
	for _, f := range t.fonts {
		f.WriteXML(x)
	}
	x.CTag()

	x.OTag("+fills").Attr("count", len(t.fills))
	for _, f := range t.fills {
		f.WriteXML(x)
	}
	x.CTag()

	x.OTag("+borders").Attr("count", len(t.borders))
	for _, b := range t.borders {
		b.WriteXML(x)
	}
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(t.xfs))
	for _, r := range t.xfs {
		x.OTag("+xf")
		x.Attr("numFmtId", 0).Attr("fontId", r.font).Attr("fillId", r.fill).Attr("borderId", r.border)
		x.Attr("xfId", 0)
		if r.font > 0 {
			x.Attr("applyFont", 1)
		}
		if r.fill > 0 {
			x.Attr("applyFill", 1)
		}
		if r.border > 0 {
			x.Attr("applyBorder", 1)
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.CTag() // styleSheet
}
