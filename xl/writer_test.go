package xl

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBlob = []byte("\x89PNG\r\n\x1a\nnot really an image")

func sampleWorkbook(t *testing.T) *Workbook {
	t.Helper()
	wb := NewWorkbook()
	wb.AppName = "xl tests"
	wb.Theme = DefaultTheme()

	sh, err := wb.AddSheet("Data")
	require.NoError(t, err)
	sh.SetColumnWidth(1, 20)

	bold := &Style{Font: &Font{Bold: true}}
	hdr := &Style{
		Font:   &Font{Bold: true},
		Fill:   SolidFill(ThemeColor(SlotAccent1, 0.4)),
		Border: &Border{Bottom: BorderSide{Style: BorderThin}},
	}

	r := sh.AddRow()
	for _, s := range []string{"Name", "Qty"} {
		c := r.AddCell()
		c.SetStr(s)
		c.SetStyle(hdr)
	}
	r = sh.AddRow()
	c := r.AddCell()
	c.SetStr("apples")
	c.SetStyle(bold)
	r.AddCell().SetInt(12)

	sh.SetAutoFilter("A1:B2").Column(1).CustomFilters = &CustomFilters{
		Filters: []CustomFilter{{OpGreaterThan, "10"}},
	}
	sh.AddConditionalFormatting("B2:B2", &CfRule{
		Type: CfColorScale,
		ColorScale: &ColorScale{
			Cfvos:  []Cfvo{{Type: "min"}, {Type: "max"}},
			Colors: []Color{RGBColor("FFF8696B"), RGBColor("FF63BE7B")},
		},
	})

	shape := &Shape{Name: "Note", Fill: SchemeColor("accent2")}
	shape.AddText("checked")
	sh.AddShape(BIFF8Bounds{
		From: BIFF8Marker{Col: 3, ColOff: 256, Row: 1},
		To:   BIFF8Marker{Col: 6, Row: 5, RowOff: 128},
	}, shape)
	sh.AddPicture(BIFF8Bounds{
		From: BIFF8Marker{Col: 3, Row: 6},
		To:   BIFF8Marker{Col: 5, Row: 10},
	}, "Logo", &PictureInfo{Extension: ".PNG", Blob: pngBlob})

	return wb
}

func TestWriterParts(t *testing.T) {
	wb := sampleWorkbook(t)
	out := MemStorage{}
	require.NoError(t, NewWriter(out).Write(wb))

	for _, p := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/core.xml",
		"docProps/app.xml",
		"xl/workbook.xml",
		"xl/_rels/workbook.xml.rels",
		"xl/styles.xml",
		"xl/theme/theme1.xml",
		"xl/sharedStrings.xml",
		"xl/worksheets/Data.xml",
		"xl/worksheets/_rels/Data.xml.rels",
		"xl/drawings/drawing1.xml",
		"xl/drawings/_rels/drawing1.xml.rels",
	} {
		assert.Contains(t, out, p)
	}
	assert.NotContains(t, out, "xl/richData/rdrichvalue.xml")
	assert.NotContains(t, out, "xl/metadata.xml")

	media := 0
	for _, p := range out.Paths() {
		if strings.HasPrefix(p, "xl/media/") {
			media++
			assert.True(t, strings.HasSuffix(p, ".png"), p)
			assert.Equal(t, pngBlob, out[p])
		}
	}
	assert.Equal(t, 1, media)

	ct := string(out["[Content_Types].xml"])
	assert.Contains(t, ct, `Extension="png"`)
	assert.Contains(t, ct, "drawing+xml")
	assert.Contains(t, ct, "theme+xml")
	assert.Contains(t, ct, "styles+xml")

	wbRels := string(out["xl/_rels/workbook.xml.rels"])
	assert.Contains(t, wbRels, `Target="styles.xml"`)
	assert.Contains(t, wbRels, `Target="theme/theme1.xml"`)

	sheet := string(out["xl/worksheets/Data.xml"])
	assert.Contains(t, sheet, `<autoFilter`)
	assert.Contains(t, sheet, `<conditionalFormatting`)
	assert.Contains(t, sheet, `r:id="rId1"`)
	assert.Contains(t, sheet, `s="1"`)
	assert.Contains(t, sheet, `s="2"`)
	assert.Less(t, strings.Index(sheet, "<sheetData"), strings.Index(sheet, "<autoFilter"))
	assert.Less(t, strings.Index(sheet, "<autoFilter"), strings.Index(sheet, "<conditionalFormatting"))
	assert.Less(t, strings.Index(sheet, "<conditionalFormatting"), strings.Index(sheet, "<drawing"))

	sheetRels := string(out["xl/worksheets/_rels/Data.xml.rels"])
	assert.Contains(t, sheetRels, `Target="../drawings/drawing1.xml"`)

	drawing := string(out["xl/drawings/drawing1.xml"])
	assert.Equal(t, 2, strings.Count(drawing, "<xdr:twoCellAnchor"))
	assert.Contains(t, drawing, `editAs="oneCell"`)
	assert.Contains(t, drawing, `r:embed="rId1"`)
	assert.Contains(t, string(out["xl/drawings/_rels/drawing1.xml.rels"]), `Target="../media/`)

	th, err := ParseTheme(bytes.NewReader(out["xl/theme/theme1.xml"]))
	require.NoError(t, err)
	assert.Equal(t, DefaultTheme().Colors, th.Colors)
}

func TestWriterStyles(t *testing.T) {
	wb := sampleWorkbook(t)
	w := NewWriter(MemStorage{})
	require.NoError(t, w.Write(wb))

	// default font, bold font
	assert.Len(t, w.styles.fonts, 2)
	// none, gray125, accent fill
	assert.Len(t, w.styles.fills, 3)
	assert.Len(t, w.styles.borders, 2)
	// default, header, bold
	assert.Len(t, w.styles.xfs, 3)
	assert.Equal(t, xfRecord{font: 1, fill: 2, border: 1}, w.styles.xfs[1])
	assert.Equal(t, xfRecord{font: 1}, w.styles.xfs[2])
}

func TestWriterCellPictures(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("Pics")
	require.NoError(t, err)

	r := sh.AddRow()
	r.AddCell().SetPicture(&PictureInfo{Extension: ".jpg", Blob: []byte("jpeg one")})
	r.AddCell().SetPicture(&PictureInfo{Extension: ".jpeg", Blob: []byte("jpeg one")})
	r.AddCell().SetPicture(&PictureInfo{Extension: ".png", Blob: pngBlob})
	sh.AddPicture(BIFF8Bounds{To: BIFF8Marker{Col: 2, Row: 2}}, "same", &PictureInfo{Extension: ".png", Blob: pngBlob})

	out := MemStorage{}
	w := NewWriter(out)
	require.NoError(t, w.Write(wb))

	assert.Len(t, w.media, 2)
	assert.Len(t, w.richMedia, 2)
	for i, m := range w.richMedia {
		assert.Equal(t, i, m.IId)
	}

	for _, p := range []string{
		"xl/richData/rdrichvalue.xml",
		"xl/richData/richValueRel.xml",
		"xl/richData/_rels/richValueRel.xml.rels",
		"xl/richData/rdrichvaluestructure.xml",
		"xl/metadata.xml",
	} {
		assert.Contains(t, out, p)
	}

	sheet := string(out["xl/worksheets/Pics.xml"])
	assert.Equal(t, 2, strings.Count(sheet, `vm="1"`))
	assert.Equal(t, 1, strings.Count(sheet, `vm="2"`))
	assert.Contains(t, string(out["[Content_Types].xml"]), `Extension="jpeg"`)
}

func TestWriterErrors(t *testing.T) {
	assert.Error(t, NewWriter(MemStorage{}).Write(NewWorkbook()))

	wb := NewWorkbook()
	sh, err := wb.AddSheet("Bad")
	require.NoError(t, err)
	sh.AddRow().AddCell().SetPicture(&PictureInfo{Extension: ".gif", Blob: []byte("GIF89a")})
	assert.Error(t, NewWriter(MemStorage{}).Write(wb))

	wb = NewWorkbook()
	sh, err = wb.AddSheet("Empty")
	require.NoError(t, err)
	sh.AddPicture(BIFF8Bounds{}, "nothing", &PictureInfo{Extension: ".png"})
	assert.Error(t, NewWriter(MemStorage{}).Write(wb))
}

func TestZipStorage(t *testing.T) {
	wb := sampleWorkbook(t)
	fn := filepath.Join(t.TempDir(), "sample.xlsx")
	f, err := os.Create(fn)
	require.NoError(t, err)

	zs := NewZipStorage(f)
	require.NoError(t, NewWriter(zs).Write(wb))
	require.NoError(t, zs.Close())
	require.NoError(t, f.Close())

	zr, err := zip.OpenReader(fn)
	require.NoError(t, err)
	defer zr.Close()

	names := map[string]bool{}
	for _, zf := range zr.File {
		names[zf.Name] = true
	}
	assert.True(t, names["xl/workbook.xml"])
	assert.True(t, names["xl/drawings/drawing1.xml"])
	assert.True(t, names["[Content_Types].xml"])
}

func TestDirStorage(t *testing.T) {
	mem := MemStorage{}
	require.NoError(t, mem.WriteBlob("/xl/a.xml", []byte("a")))
	require.NoError(t, mem.WriteBlob("/b.xml", []byte("b")))
	assert.Error(t, mem.WriteBlob("/b.xml", []byte("again")))
	assert.Equal(t, []string{"b.xml", "xl/a.xml"}, mem.Paths())

	dir := t.TempDir()
	require.NoError(t, mem.CopyTo(NewDirStorage(dir)))
	got, err := os.ReadFile(filepath.Join(dir, "xl", "a.xml"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(got))
}

func TestWorkbookSheets(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.AddSheet("One")
	require.NoError(t, err)
	_, err = wb.AddSheet("One")
	assert.Error(t, err)
	_, err = wb.AddSheet("ONE")
	assert.Error(t, err)
	_, err = wb.AddSheet(strings.Repeat("x", 32))
	assert.Error(t, err)
	_, err = wb.AddSheet("bad/name")
	assert.Error(t, err)
	_, err = wb.AddSheet("")
	assert.Error(t, err)

	assert.NotNil(t, wb.Sheet("One"))
	assert.Same(t, wb.Sheet("One"), wb.Sheet("one"))
	assert.Nil(t, wb.Sheet("Two"))

	res, err := wb.ResolveColor(ThemeColor(SlotAccent1, 0), FillContext)
	require.NoError(t, err)
	assert.Equal(t, "4F81BD", res.RGB)

	wb.Theme = &Theme{}
	require.NoError(t, wb.Theme.SetSlot(SlotAccent1, "123456"))
	res, err = wb.ResolveColor(ThemeColor(SlotAccent1, 0), FillContext)
	require.NoError(t, err)
	assert.Equal(t, "123456", res.RGB)
}

func TestCellHelpers(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("Cells")
	require.NoError(t, err)
	sh.AddRow()
	r := sh.AddRow()
	r.AddCell()
	c := r.AddCell()
	assert.Equal(t, "B2", c.Coord())
	assert.Equal(t, 2, c.Column())
	assert.Equal(t, CellTypeUnset, c.Type())

	require.NoError(t, c.SetError("#N/A"))
	assert.Equal(t, CellTypeError, c.Type())
	assert.Equal(t, "#N/A", c.Value())
	assert.Error(t, c.SetError("#OOPS"))
	assert.Equal(t, "#N/A", c.Value())

	c.SetFloat(0.1)
	assert.Equal(t, "0.1", c.v)
	c.SetFloat(1e21)
	assert.Equal(t, "1e+21", c.v)

	assert.Nil(t, c.Style())
	s := &Style{Fill: SolidFill(IndexedColor(10))}
	c.SetStyle(s)
	assert.Same(t, s, c.Style())
	assert.False(t, s.IsDefault())
	assert.True(t, (&Style{Font: &Font{}, Border: &Border{}}).IsDefault())

	assert.Equal(t, "AA", ColumnNumberAsLetters(27))
	assert.Equal(t, "XFD", ColumnNumberAsLetters(16384))
}

func TestMediaName(t *testing.T) {
	blob := []byte("\x89PNG\r\n\x1a\n")
	n1, ct, err := mediaName(&PictureInfo{Extension: ".PNG", Blob: blob})
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.True(t, strings.HasSuffix(n1, ".png"))

	n2, _, err := mediaName(&PictureInfo{Extension: "png", Blob: blob})
	require.NoError(t, err)
	assert.Equal(t, n1, n2)

	n3, ct, err := mediaName(&PictureInfo{Extension: ".jpg", Blob: []byte("jfif")})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.True(t, strings.HasSuffix(n3, ".jpeg"))
	assert.NotEqual(t, strings.TrimSuffix(n1, ".png"), strings.TrimSuffix(n3, ".jpeg"))

	_, _, err = mediaName(&PictureInfo{Extension: ".bmp", Blob: blob})
	assert.Error(t, err)
	_, _, err = mediaName(nil)
	assert.Error(t, err)
}
