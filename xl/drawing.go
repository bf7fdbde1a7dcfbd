package xl

import (
	"io"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// Shape is a drawing shape (xdr:sp) with optional text.
type Shape struct {
	ID         int
	Name       string
	Descr      string
	Geometry   string // preset geometry, "rect" when empty
	Fill       *ColorChoice
	Line       *ColorChoice
	Paragraphs []*TextParagraph
}

// TextParagraph is an a:p element.
type TextParagraph struct {
	Align string // l, ctr, r, just
	Runs  []*TextRun
}

// TextRun is an a:r element: a stretch of text sharing one format.
type TextRun struct {
	Text     string
	Bold     bool
	Italic   bool
	Size     int // hundredths of a point, 0 for inherited
	Typeface string
	Color    *ColorChoice
}

// Picture is an embedded image (xdr:pic).
type Picture struct {
	ID    int
	Name  string
	Descr string
	Embed string // relationship id of the image part

	Media *PictureInfo // image data, consumed by the writer
}

// Text returns the text of all paragraphs separated by newlines.
func (s *Shape) Text() string {
	var sb strings.Builder
	for i, p := range s.Paragraphs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, r := range p.Runs {
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}

// AddText appends a paragraph with a single run.
func (s *Shape) AddText(text string) *TextRun {
	r := &TextRun{Text: text}
	s.Paragraphs = append(s.Paragraphs, &TextParagraph{Runs: []*TextRun{r}})
	return r
}

func ParseShape(r io.Reader) (*Shape, error) {
	var s *Shape
	err := parseRoot(r, "sp", func(d *decoder, se *xmltokenizer.Token) (err error) {
		s, err = parseShape(d, se)
		return err
	})
	return s, err
}

func parseShape(d *decoder, se *xmltokenizer.Token) (*Shape, error) {
	s := &Shape{}
	err := d.walk(se, func(el *xmltokenizer.Token) error {
		switch localName(el) {
		case "nvSpPr":
			return d.walk(el, func(el *xmltokenizer.Token) (err error) {
				if localName(el) == "cNvPr" {
					s.ID, s.Name, s.Descr, err = parseNonVisualProps(el)
				}
				return err
			})
		case "spPr":
			return d.walk(el, func(el *xmltokenizer.Token) (err error) {
				switch localName(el) {
				case "prstGeom":
					s.Geometry = attrString(el, "prst")
				case "solidFill":
					s.Fill, err = parseSolidFill(d, el)
				case "ln":
					err = d.walk(el, func(el *xmltokenizer.Token) (err error) {
						if localName(el) == "solidFill" {
							s.Line, err = parseSolidFill(d, el)
						}
						return err
					})
				}
				return err
			})
		case "txBody":
			return d.walk(el, func(el *xmltokenizer.Token) error {
				if localName(el) != "p" {
					return nil
				}
				p, err := parseParagraph(d, el)
				if err != nil {
					return err
				}
				s.Paragraphs = append(s.Paragraphs, p)
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "sp")
	}
	return s, nil
}

func parseNonVisualProps(el *xmltokenizer.Token) (id int, name, descr string, err error) {
	id, _, err = attrInt(el, "id")
	return id, attrString(el, "name"), attrString(el, "descr"), err
}

func ParseTextParagraph(r io.Reader) (*TextParagraph, error) {
	var p *TextParagraph
	err := parseRoot(r, "p", func(d *decoder, se *xmltokenizer.Token) (err error) {
		p, err = parseParagraph(d, se)
		return err
	})
	return p, err
}

func parseParagraph(d *decoder, se *xmltokenizer.Token) (*TextParagraph, error) {
	p := &TextParagraph{}
	err := d.walk(se, func(el *xmltokenizer.Token) error {
		switch localName(el) {
		case "pPr":
			p.Align = attrString(el, "algn")
		case "r":
			r, err := parseTextRun(d, el)
			if err != nil {
				return err
			}
			p.Runs = append(p.Runs, r)
		}
		return nil
	})
	return p, err
}

func ParseTextRun(r io.Reader) (*TextRun, error) {
	var tr *TextRun
	err := parseRoot(r, "r", func(d *decoder, se *xmltokenizer.Token) (err error) {
		tr, err = parseTextRun(d, se)
		return err
	})
	return tr, err
}

func parseTextRun(d *decoder, se *xmltokenizer.Token) (*TextRun, error) {
	r := &TextRun{}
	err := d.walk(se, func(el *xmltokenizer.Token) (err error) {
		switch localName(el) {
		case "rPr":
			if r.Bold, err = attrBool(el, "b", false); err != nil {
				return err
			}
			if r.Italic, err = attrBool(el, "i", false); err != nil {
				return err
			}
			if r.Size, _, err = attrInt(el, "sz"); err != nil {
				return err
			}
			return d.walk(el, func(el *xmltokenizer.Token) (err error) {
				switch localName(el) {
				case "solidFill":
					r.Color, err = parseSolidFill(d, el)
				case "latin":
					r.Typeface = attrString(el, "typeface")
				}
				return err
			})
		case "t":
			r.Text, err = charData(d, el)
		}
		return err
	})
	return r, err
}

func ParsePicture(r io.Reader) (*Picture, error) {
	var p *Picture
	err := parseRoot(r, "pic", func(d *decoder, se *xmltokenizer.Token) (err error) {
		p, err = parsePicture(d, se)
		return err
	})
	return p, err
}

func parsePicture(d *decoder, se *xmltokenizer.Token) (*Picture, error) {
	p := &Picture{}
	err := d.walk(se, func(el *xmltokenizer.Token) error {
		switch localName(el) {
		case "nvPicPr":
			return d.walk(el, func(el *xmltokenizer.Token) (err error) {
				if localName(el) == "cNvPr" {
					p.ID, p.Name, p.Descr, err = parseNonVisualProps(el)
				}
				return err
			})
		case "blipFill":
			return d.walk(el, func(el *xmltokenizer.Token) error {
				if localName(el) == "blip" {
					p.Embed = attrString(el, "embed")
				}
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "pic")
	}
	return p, nil
}

func (s *Shape) WriteXML(x *xml.Writer) {
	x.OTag("+xdr:sp").Attr("macro", "").Attr("textlink", "")

	x.OTag("+xdr:nvSpPr")
	writeNonVisualProps(x, s.ID, s.Name, s.Descr)
	x.OTag("+xdr:cNvSpPr").CTag()
	x.CTag()

	x.OTag("+xdr:spPr")
	geom := s.Geometry
	if geom == "" {
		geom = "rect"
	}
	x.OTag("+a:prstGeom").Attr("prst", geom)
	x.OTag("a:avLst").CTag()
	x.CTag()
	if s.Fill != nil {
		writeSolidFill(x, s.Fill)
	}
	if s.Line != nil {
		x.OTag("+a:ln")
		writeSolidFill(x, s.Line)
		x.CTag()
	}
	x.CTag() // spPr

	if len(s.Paragraphs) > 0 {
		x.OTag("+xdr:txBody")
		x.OTag("+a:bodyPr").CTag()
		x.OTag("+a:lstStyle").CTag()
		for _, p := range s.Paragraphs {
			p.WriteXML(x)
		}
		x.CTag()
	}

	x.CTag() // sp
}

func (s *Shape) OOXML() string { return fragment(s.WriteXML) }

func (p *TextParagraph) WriteXML(x *xml.Writer) {
	x.OTag("+a:p")
	if p.Align != "" {
		x.OTag("+a:pPr").Attr("algn", p.Align).CTag()
	}
	for _, r := range p.Runs {
		r.WriteXML(x)
	}
	x.CTag()
}

func (p *TextParagraph) OOXML() string { return fragment(p.WriteXML) }

func (r *TextRun) WriteXML(x *xml.Writer) {
	x.OTag("+a:r")
	x.OTag("+a:rPr").Attr("lang", "en-US")
	if r.Size > 0 {
		x.Attr("sz", r.Size)
	}
	if r.Bold {
		x.Attr("b", 1)
	}
	if r.Italic {
		x.Attr("i", 1)
	}
	if r.Color != nil {
		writeSolidFill(x, r.Color)
	}
	if r.Typeface != "" {
		x.OTag("+a:latin").Attr("typeface", r.Typeface).CTag()
	}
	x.CTag() // rPr
	x.OTag("+a:t").String(r.Text).CTag()
	x.CTag()
}

func (r *TextRun) OOXML() string { return fragment(r.WriteXML) }

func (p *Picture) WriteXML(x *xml.Writer) {
	x.OTag("+xdr:pic")

	x.OTag("+xdr:nvPicPr")
	writeNonVisualProps(x, p.ID, p.Name, p.Descr)
	x.OTag("+xdr:cNvPicPr")
	x.OTag("a:picLocks").Attr("noChangeAspect", 1).CTag()
	x.CTag()
	x.CTag()

	x.OTag("+xdr:blipFill")
	x.OTag("+a:blip")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")
	x.Attr("r:embed", p.Embed)
	x.CTag()
	x.OTag("+a:stretch")
	x.OTag("a:fillRect").CTag()
	x.CTag()
	x.CTag() // blipFill

	x.OTag("+xdr:spPr")
	x.OTag("+a:prstGeom").Attr("prst", "rect")
	x.OTag("a:avLst").CTag()
	x.CTag()
	x.CTag()

	x.CTag() // pic
}

func (p *Picture) OOXML() string { return fragment(p.WriteXML) }

func writeNonVisualProps(x *xml.Writer, id int, name, descr string) {
	x.OTag("+xdr:cNvPr").Attr("id", id).Attr("name", name)
	if descr != "" {
		x.Attr("descr", descr)
	}
	x.CTag()
}
