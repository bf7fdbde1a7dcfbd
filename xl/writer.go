package xl

import (
	"bytes"
	"fmt"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/pkg/errors"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

const (
	nsMain     = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRels     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsRichData = "http://schemas.microsoft.com/office/spreadsheetml/2017/richdata"

	relDocument = nsRels + "/officeDocument"
	relWorksht  = nsRels + "/worksheet"
	relStyles   = nsRels + "/styles"
	relTheme    = nsRels + "/theme"
	relStrings  = nsRels + "/sharedStrings"
	relMetadata = nsRels + "/sheetMetadata"
	relDrawing  = nsRels + "/drawing"
	relImage    = nsRels + "/image"
	relAppProps = nsRels + "/extended-properties"

	ctSpreadsheetML = "application/vnd.openxmlformats-officedocument.spreadsheetml."
)

// Writer serializes a Workbook into the parts of an xlsx package.
type Writer struct {
	out Storage

	lastGlobalID   int
	lastWorkbookID int
	lastRichDataID int
	lastDrawingID  int

	globalRels   map[string]RelInfo // package relationships
	workbookRels map[string]RelInfo
	richDataRels map[string]RelInfo
	defaultTypes map[string]string // extension -> content type
	partTypes    map[string]string // part name -> content type

	sharedStrings   []string
	sharedStringMap map[string]int // 0-based index into sharedStrings

	media     []*MediaInfo
	richMedia []*MediaInfo          // media referenced from cells as rich values
	mediaMap  map[string]*MediaInfo // maps media name to media info

	styles *styleTable
}

type RelInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

type MediaInfo struct {
	Name string // hashed blob + extension
	Blob []byte
	IId  int    // rich value index, -1 when only used by drawings
	RId  string // rich value relationship id
}

func NewWriter(s Storage) *Writer {
	return &Writer{
		out:          s,
		globalRels:   map[string]RelInfo{},
		workbookRels: map[string]RelInfo{},
		richDataRels: map[string]RelInfo{},
		defaultTypes: map[string]string{
			"xml":  "application/xml",
			"rels": "application/vnd.openxmlformats-package.relationships+xml",
		},
		partTypes:       map[string]string{},
		sharedStringMap: map[string]int{},
		mediaMap:        map[string]*MediaInfo{},
		styles:          newStyleTable(),
	}
}

func (w *Writer) SharedString(s string) int {
	if i, ok := w.sharedStringMap[s]; ok {
		return i
	}
	i := len(w.sharedStrings)
	w.sharedStrings = append(w.sharedStrings, s)
	w.sharedStringMap[s] = i
	return i
}

func nextID(last *int) (int, string) {
	*last++
	return *last, fmt.Sprintf("rId%d", *last)
}

// packagePart registers a part referenced from the package rels and
// returns its absolute name.
func (w *Writer) packagePart(relpath, ctype, reltype string) string {
	_, rid := nextID(&w.lastGlobalID)
	w.globalRels[rid] = RelInfo{Type: reltype, Target: relpath}
	w.partTypes["/"+relpath] = ctype
	return "/" + relpath
}

// workbookPart registers a part referenced from the workbook rels.
func (w *Writer) workbookPart(relpath, ctype, reltype string) string {
	_, rid := nextID(&w.lastWorkbookID)
	return w.workbookPartID(rid, relpath, ctype, reltype)
}

func (w *Writer) workbookPartID(rid, relpath, ctype, reltype string) string {
	w.workbookRels[rid] = RelInfo{Type: reltype, Target: relpath}
	w.partTypes["/xl/"+relpath] = ctype
	return "/xl/" + relpath
}

// emit renders one xml part and stores it.
func (w *Writer) emit(partname string, fn func(x *xml.Writer) error) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()
	if err := fn(x); err != nil {
		return err
	}
	return errors.Wrap(w.out.WriteBlob(partname, bb.Bytes()), partname)
}

// Write stores the complete package. Sheets go first since they collect
// the shared strings, styles and media the other parts list.
func (w *Writer) Write(wb *Workbook) error {
	steps := []func() error{
		func() error { return w.writeWorkbook(wb) },
		w.writeStyles,
		func() error {
			if wb.Theme == nil {
				return nil
			}
			return w.writeTheme(wb.Theme)
		},
		w.writeMedia,
		w.writeRichData,
		w.writeCoreProperties,
		func() error { return w.writeExtendedProperties(wb.AppName) },
		w.writeSharedStrings,
		func() error { return w.writeRels("/xl/_rels/workbook.xml.rels", w.workbookRels) },
		func() error { return w.writeRels("/_rels/.rels", w.globalRels) },
		w.writeContentTypes,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	Log.WithField("sheets", len(wb.Sheets)).
		WithField("media", len(w.media)).
		WithField("strings", len(w.sharedStrings)).
		Debug("workbook written")
	return nil
}

func (w *Writer) writeCoreProperties() error {
	partname := w.packagePart("docProps/core.xml",
		"application/vnd.openxmlformats-package.core-properties+xml",
		"http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties")

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("cp:coreProperties")
		x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
		x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
		x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
		x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
		x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

		x.OTag("+dcterms:created").Attr("xsi:type", "dcterms:W3CDTF")
		x.Write(time.Now().UTC().Format(time.RFC3339))
		x.CTag()

		x.CTag()
		return nil
	})
}

func (w *Writer) writeExtendedProperties(appname string) error {
	partname := w.packagePart("docProps/app.xml",
		"application/vnd.openxmlformats-officedocument.extended-properties+xml", relAppProps)

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("Properties")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
		x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")
		if appname != "" {
			x.OTag("+Application").String(appname).CTag()
		}
		x.CTag()
		return nil
	})
}

func (w *Writer) writeContentTypes() error {
	return w.emit("[Content_Types].xml", func(x *xml.Writer) error {
		x.OTag("Types")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
		enumerate(w.defaultTypes, func(ext, ctype string) error {
			x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
			return nil
		})
		enumerate(w.partTypes, func(partname, ctype string) error {
			x.OTag("+Override").Attr("PartName", partname).Attr("ContentType", ctype).CTag()
			return nil
		})
		x.CTag()
		return nil
	})
}

func (w *Writer) writeStyles() error {
	partname := w.workbookPart("styles.xml", ctSpreadsheetML+"styles+xml", relStyles)
	return w.emit(partname, func(x *xml.Writer) error {
		w.styles.WriteXML(x)
		return nil
	})
}

func (w *Writer) writeTheme(t *Theme) error {
	partname := w.workbookPart("theme/theme1.xml", "application/vnd.openxmlformats-officedocument.theme+xml", relTheme)
	return w.emit(partname, func(x *xml.Writer) error {
		t.WriteXML(x)
		return nil
	})
}

func (w *Writer) writeWorkbook(wb *Workbook) error {
	if len(wb.Sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	partname := w.packagePart("xl/workbook.xml", ctSpreadsheetML+"sheet.main+xml", relDocument)

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("workbook")
		x.Attr("xmlns", nsMain)
		x.Attr("xmlns:r", nsRels)

		x.OTag("+sheets")
		for _, sheet := range wb.Sheets {
			sheetID, rid := nextID(&w.lastWorkbookID)
			x.OTag("+sheet").Attr("name", sheet.Name).Attr("sheetId", sheetID).Attr("r:id", rid).CTag()

			if err := w.writeSheet(sheet, rid); err != nil {
				return errors.Wrapf(err, "sheet %q", sheet.Name)
			}
		}
		x.CTag() // sheets

		x.CTag() // workbook
		return nil
	})
}

func (w *Writer) writeSheet(sh *Sheet, rid string) error {
	partname := w.workbookPartID(rid, "worksheets/"+sh.Name+".xml", ctSpreadsheetML+"worksheet+xml", relWorksht)

	sheetRels := map[string]RelInfo{}
	err := w.emit(partname, func(x *xml.Writer) error {
		x.OTag("worksheet")
		x.Attr("xmlns", nsMain)
		x.Attr("xmlns:r", nsRels)

		if len(sh.Columns) > 0 {
			x.OTag("+cols")
			enumerate(sh.Columns, func(n int, v *Column) error {
				x.OTag("+col").Attr("min", n).Attr("max", n)
				if v.Width > 0 {
					x.Attr("width", v.Width).Attr("customWidth", 1)
				}
				x.CTag()
				return nil
			})
			x.CTag()
		}

		x.OTag("+sheetData")
		for _, row := range sh.Rows {
			x.OTag("+row").Attr("r", row.rowNumber)
			if row.Height > 0 {
				x.Attr("ht", row.Height).Attr("customHeight", 1)
			}
			for _, cell := range row.Cells {
				if err := w.writeCell(x, cell); err != nil {
					return errors.Wrap(err, cell.coord)
				}
			}
			x.CTag() // row
		}
		x.CTag() // sheetData

		if sh.AutoFilter != nil {
			sh.AutoFilter.WriteXML(x)
		}
		for _, cf := range sh.ConditionalFormats {
			cf.WriteXML(x)
		}

		if len(sh.Anchors) > 0 {
			target, err := w.writeDrawing(sh)
			if err != nil {
				return err
			}
			sheetRels["rId1"] = RelInfo{Type: relDrawing, Target: target}
			x.OTag("+drawing").Attr("r:id", "rId1").CTag()
		}

		x.CTag() // worksheet
		return nil
	})
	if err != nil || len(sheetRels) == 0 {
		return err
	}
	return w.writeRels("/xl/worksheets/_rels/"+sh.Name+".xml.rels", sheetRels)
}

func (w *Writer) writeCell(x *xml.Writer, cell *Cell) error {
	x.OTag("+c").Attr("r", cell.coord)
	if si := w.styles.index(cell.style); si > 0 {
		x.Attr("s", si)
	}

	switch cell.typ {
	case CellTypeBool:
		x.Attr("t", "b")
		x.OTag("v").Write(cell.v).CTag()
	case CellTypeNumber:
		x.Attr("t", "n")
		x.OTag("v").Write(cell.v).CTag()
	case CellTypeError:
		x.Attr("t", "e")
		x.OTag("v").Write(cell.v).CTag()
	case CellTypeSharedString:
		x.Attr("t", "s")
		x.OTag("v").Write(w.SharedString(cell.v)).CTag()
	case cellTypePicture:
		if cell.picture == nil {
			return errors.New("missing picture data")
		}
		info, err := w.addMedia(cell.picture)
		if err != nil {
			return err
		}
		if info.IId < 0 {
			_, info.RId = nextID(&w.lastRichDataID)
			info.IId = len(w.richMedia)
			w.richMedia = append(w.richMedia, info)
		}
		// in-cell images are error cells carrying value metadata
		x.Attr("t", "e").Attr("vm", info.IId+1)
		x.OTag("v").Write("#VALUE!").CTag()
	}

	x.CTag() // c
	return nil
}

// writeDrawing writes the drawing part of a sheet and returns its path
// relative to the worksheet.
func (w *Writer) writeDrawing(sh *Sheet) (string, error) {
	n, _ := nextID(&w.lastDrawingID)
	relpath := fmt.Sprintf("drawings/drawing%d.xml", n)
	w.partTypes["/xl/"+relpath] = "application/vnd.openxmlformats-officedocument.drawing+xml"

	rels := map[string]RelInfo{}
	err := w.emit("/xl/"+relpath, func(x *xml.Writer) error {
		x.OTag("xdr:wsDr")
		x.Attr("xmlns:xdr", "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing")
		x.Attr("xmlns:a", "http://schemas.openxmlformats.org/drawingml/2006/main")

		for _, a := range sh.Anchors {
			if p := a.Picture; p != nil && p.Media != nil {
				info, err := w.addMedia(p.Media)
				if err != nil {
					return errors.Wrapf(err, "picture %q", p.Name)
				}
				p.Embed = fmt.Sprintf("rId%d", len(rels)+1)
				rels[p.Embed] = RelInfo{Type: relImage, Target: "../media/" + info.Name}
			}
			a.WriteXML(x)
		}

		x.CTag() // wsDr
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(rels) > 0 {
		err = w.writeRels(fmt.Sprintf("/xl/drawings/_rels/drawing%d.xml.rels", n), rels)
	}
	return "../" + relpath, err
}

// addMedia registers an image blob once per distinct content.
func (w *Writer) addMedia(pic *PictureInfo) (*MediaInfo, error) {
	n, ct, err := mediaName(pic)
	if err != nil {
		return nil, err
	}
	w.defaultTypes[strings.TrimPrefix(path.Ext(n), ".")] = ct
	info, ok := w.mediaMap[n]
	if !ok {
		info = &MediaInfo{
			Name: n,
			Blob: pic.Blob,
			IId:  -1,
		}
		w.mediaMap[n] = info
		w.media = append(w.media, info)
	}
	return info, nil
}

func (w *Writer) writeSharedStrings() error {
	if len(w.sharedStrings) == 0 {
		return nil
	}
	partname := w.workbookPart("sharedStrings.xml", ctSpreadsheetML+"sharedStrings+xml", relStrings)

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("sst")
		x.Attr("xmlns", nsMain)
		x.Attr("count", len(w.sharedStrings))
		x.Attr("uniqueCount", len(w.sharedStrings))
		for _, s := range w.sharedStrings {
			x.OTag("+si")
			x.OTag("t").Write(s).CTag()
			x.CTag()
		}
		x.CTag()
		return nil
	})
}

func (w *Writer) writeMedia() error {
	for _, m := range w.media {
		if err := w.out.WriteBlob("/xl/media/"+m.Name, m.Blob); err != nil {
			return errors.Wrap(err, m.Name)
		}
		if m.IId >= 0 {
			w.richDataRels[m.RId] = RelInfo{Type: relImage, Target: "../media/" + m.Name}
		}
	}
	return nil
}

// writeRichData writes the rich value parts that back in-cell pictures.
func (w *Writer) writeRichData() error {
	if len(w.richMedia) == 0 {
		return nil
	}
	for _, step := range []func() error{
		w.writeRichValueRel,
		func() error { return w.writeRels("/xl/richData/_rels/richValueRel.xml.rels", w.richDataRels) },
		w.writeRichValueStructure,
		w.writeRichValueData,
		w.writeMetadata,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeMetadata() error {
	partname := w.workbookPart("metadata.xml", ctSpreadsheetML+"sheetMetadata+xml", relMetadata)

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("metadata")
		x.Attr("xmlns", nsMain)
		x.Attr("xmlns:xlrd", nsRichData)

		x.OTag("+metadataTypes").Attr("count", 1)
		x.OTag("+metadataType")
		x.Attr("name", "XLRICHVALUE")
		x.Attr("minSupportedVersion", "120000")
		for _, s := range []xml.NameString{"copy", "pasteAll", "pasteValues",
			"merge", "splitFirst", "rowColShift", "clearFormats",
			"clearComments", "assign", "coerce"} {
			x.Attr(s, 1)
		}
		x.CTag() // metadataType
		x.CTag() // metadataTypes

		x.OTag("futureMetadata").Attr("name", "XLRICHVALUE").Attr("count", len(w.richMedia))
		for _, m := range w.richMedia {
			x.OTag("+bk")
			x.OTag("extLst")
			x.OTag("ext").Attr("uri", "{3e2802c4-a4d2-4d8b-9148-e3be6c30e623}")
			x.OTag("xlrd:rvb").Attr("i", m.IId).CTag()
			x.CTag() // ext
			x.CTag() // extLst
			x.CTag() // bk
		}
		x.CTag() // futureMetadata

		x.OTag("valueMetadata").Attr("count", len(w.richMedia))
		for _, m := range w.richMedia {
			x.OTag("+bk")
			x.OTag("rc").Attr("t", 1).Attr("v", m.IId).CTag()
			x.CTag()
		}
		x.CTag() // valueMetadata

		x.CTag() // metadata
		return nil
	})
}

func (w *Writer) writeRichValueRel() error {
	partname := w.workbookPart("richData/richValueRel.xml",
		"application/vnd.ms-excel.richvaluerel+xml",
		"http://schemas.microsoft.com/office/2022/10/relationships/richValueRel")

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("richValueRels")
		x.Attr("xmlns", "http://schemas.microsoft.com/office/spreadsheetml/2022/richvaluerel")
		x.Attr("xmlns:r", nsRels)
		for _, m := range w.richMedia {
			x.OTag("+rel").Attr("r:id", m.RId).CTag()
		}
		x.CTag()
		return nil
	})
}

func (w *Writer) writeRichValueStructure() error {
	partname := w.workbookPart("richData/rdrichvaluestructure.xml",
		"application/vnd.ms-excel.rdrichvaluestructure+xml",
		"http://schemas.microsoft.com/office/2017/06/relationships/rdRichValueStructure")

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("rvStructures")
		x.Attr("xmlns", nsRichData)
		x.Attr("count", 1)

		// _localImage{Id, CalcOrigin}
		x.OTag("+s").Attr("t", "_localImage")
		x.OTag("+k").Attr("n", "_rvRel:LocalImageIdentifier").Attr("t", "i").CTag()
		x.OTag("+k").Attr("n", "CalcOrigin").Attr("t", "i").CTag()
		x.CTag()

		x.CTag()
		return nil
	})
}

func (w *Writer) writeRichValueData() error {
	partname := w.workbookPart("richData/rdrichvalue.xml",
		"application/vnd.ms-excel.rdrichvalue+xml",
		"http://schemas.microsoft.com/office/2017/06/relationships/rdRichValue")

	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("rvData")
		x.Attr("xmlns", nsRichData)
		x.Attr("count", len(w.richMedia))
		for _, m := range w.richMedia {
			x.OTag("+rv").Attr("s", 0)
			x.OTag("v").Write(m.IId).CTag() // image resource numeric id
			x.OTag("v").Write(5).CTag()     // CalcOrigin
			x.CTag()
		}
		x.CTag()
		return nil
	})
}

func (w *Writer) writeRels(partname string, rels map[string]RelInfo) error {
	return w.emit(partname, func(x *xml.Writer) error {
		x.OTag("Relationships")
		x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
		err := enumerate(rels, func(rid string, info RelInfo) error {
			x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target).CTag()
			return nil
		})
		x.CTag()
		return err
	})
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		if err := callback(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}
