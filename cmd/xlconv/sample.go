package main

import (
	"github.com/adnsv/go-ooxml/xl"
)

// sampleWorkbook builds a small report: a styled header, numbers with a
// color scale, a filter on the amount column, a note shape and an optional
// picture.
func sampleWorkbook(cfg *Config, pic *xl.PictureInfo) (*xl.Workbook, error) {
	wb := xl.NewWorkbook()
	wb.AppName = "xlconv"
	wb.Theme = cfg.Theme

	sh, err := wb.AddSheet("Report")
	if err != nil {
		return nil, err
	}
	sh.SetColumnWidth(1, float32(cfg.ColumnWidth*2))
	sh.SetColumnWidth(2, float32(cfg.ColumnWidth))

	edge := xl.ThemeColor(xl.SlotDark1, 0.5)
	border := &xl.Border{}
	border.SetAll(xl.BorderThin, &edge)

	header := &xl.Style{
		Font:   &xl.Font{Bold: true, Color: ptr(xl.ThemeColor(xl.SlotLight1, 0))},
		Fill:   xl.SolidFill(xl.ThemeColor(xl.SlotAccent1, 0)),
		Border: border,
	}
	body := &xl.Style{Border: border}

	hdr := sh.AddRow()
	hdr.Height = float32(cfg.RowHeight * 1.5)
	for _, s := range []string{"Item", "Amount"} {
		c := hdr.AddCell()
		c.SetStr(s)
		c.SetStyle(header)
	}

	items := []struct {
		name   string
		amount float64
	}{
		{"Rent", 1200},
		{"Power", 85.5},
		{"Water", 32.25},
		{"Internet", 49.99},
		{"Insurance", 310},
	}
	for _, it := range items {
		r := sh.AddRow()
		c := r.AddCell()
		c.SetStr(it.name)
		c.SetStyle(body)
		c = r.AddCell()
		c.SetFloat(it.amount)
		c.SetStyle(body)
	}

	last := xl.CellCoordAsString(2, len(items)+1)
	fc, err := sh.SetAutoFilter("A1:" + last).ColumnByName("B")
	if err != nil {
		return nil, err
	}
	fc.CustomFilters = &xl.CustomFilters{
		Filters: []xl.CustomFilter{{Operator: xl.OpGreaterThan, Val: "40"}},
	}

	sh.AddConditionalFormatting("B2:"+last, &xl.CfRule{
		Type: xl.CfColorScale,
		ColorScale: &xl.ColorScale{
			Cfvos: []xl.Cfvo{{Type: "min"}, {Type: "max"}},
			Colors: []xl.Color{
				xl.ThemeColor(xl.SlotAccent3, 0.6),
				xl.ThemeColor(xl.SlotAccent2, 0),
			},
		},
	})

	note := &xl.Shape{
		Name:     "Note",
		Geometry: "wedgeRectCallout",
		Fill:     xl.SchemeColor("accent4", xl.ColorMod{Name: xl.ModLumMod, Val: 20000}, xl.ColorMod{Name: xl.ModLumOff, Val: 80000}),
		Line:     xl.SchemeColor("accent4"),
	}
	run := note.AddText("Amounts above 40 are shown by the filter.")
	run.Color = xl.SchemeColor("tx1")
	run.Size = 1000
	sh.AddShape(xl.BIFF8Bounds{
		From: xl.BIFF8Marker{Col: 3, ColOff: 256, Row: 1, RowOff: 64},
		To:   xl.BIFF8Marker{Col: 6, ColOff: 512, Row: 5, RowOff: 0},
	}, note)

	if pic != nil {
		sh.AddPicture(xl.BIFF8Bounds{
			From: xl.BIFF8Marker{Col: 3, Row: 7},
			To:   xl.BIFF8Marker{Col: 5, Row: 14},
		}, "Picture", pic)
	}

	return wb, nil
}

func ptr[T any](v T) *T { return &v }
