package xl

import (
	"io"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
type Font struct {
	Name          string        // Typeface (empty = default Calibri)
	Size          float64       // Font size in points (0 = use default of 11)
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
	Color         *Color        // Text color (nil = automatic)
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone             UnderlineType = ""                 // No underline (default)
	UnderlineSingle           UnderlineType = "single"           // Single underline
	UnderlineDouble           UnderlineType = "double"           // Double underline
	UnderlineSingleAccounting UnderlineType = "singleAccounting" // Single accounting underline
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting" // Double accounting underline
)

const (
	DefaultFontName = "Calibri"
	DefaultFontSize = 11.0
)

// IsDefault returns true if the font uses all default properties.
func (f *Font) IsDefault() bool {
	return f.Name == "" && f.Size == 0 && !f.Bold && !f.Italic &&
		f.Underline == UnderlineNone && !f.Strikethrough && f.Color == nil
}

// Empty returns true if the font has no custom properties set.
// This is an alias for IsDefault for consistency with other Empty() methods.
func (f *Font) Empty() bool {
	return f.IsDefault()
}

// ResolvedColor returns the text color, applying the font rules for the
// system foreground index.
func (f *Font) ResolvedColor(theme Palette) (Resolved, error) {
	if f.Color == nil {
		return AutoColor().Resolve(FontContext, theme)
	}
	return f.Color.Resolve(FontContext, theme)
}

// ParseFont reads a <font> element.
func ParseFont(r io.Reader) (*Font, error) {
	var f *Font
	err := parseRoot(r, "font", func(d *decoder, se *xmltokenizer.Token) (err error) {
		f, err = parseFont(d, se)
		return err
	})
	return f, err
}

func parseFont(d *decoder, se *xmltokenizer.Token) (*Font, error) {
	f := &Font{}
	err := d.walk(se, func(el *xmltokenizer.Token) (err error) {
		switch localName(el) {
		case "name":
			f.Name = attrString(el, "val")
		case "sz":
			f.Size, _, err = attrFloat(el, "val")
		case "b":
			f.Bold, err = attrBool(el, "val", true)
		case "i":
			f.Italic, err = attrBool(el, "val", true)
		case "strike":
			f.Strikethrough, err = attrBool(el, "val", true)
		case "u":
			f.Underline = UnderlineSingle
			if v, ok := attrLookup(el, "val"); ok {
				f.Underline = UnderlineType(v)
				if v == "none" {
					f.Underline = UnderlineNone
				}
			}
		case "color":
			var c Color
			if c, err = ParseColorAttrs(el); err == nil {
				f.Color = &c
			}
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "font")
	}
	return f, nil
}

// WriteXML writes the font in the CT_Font child order.
func (f *Font) WriteXML(x *xml.Writer) {
	x.OTag("+font")
	if f.Bold {
		x.OTag("b").CTag()
	}
	if f.Italic {
		x.OTag("i").CTag()
	}
	if f.Strikethrough {
		x.OTag("strike").CTag()
	}
	switch f.Underline {
	case UnderlineNone:
	case UnderlineSingle:
		x.OTag("u").CTag()
	default:
		x.OTag("u").Attr("val", string(f.Underline)).CTag()
	}
	size := f.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	x.OTag("sz").Attr("val", formatFloat(size)).CTag()
	if f.Color != nil {
		x.OTag("color")
		f.Color.writeColorAttrs(x)
		x.CTag()
	}
	name := f.Name
	if name == "" {
		name = DefaultFontName
	}
	x.OTag("name").Attr("val", name).CTag()
	x.CTag()
}

func (f *Font) OOXML() string { return fragment(f.WriteXML) }

func (f *Font) key() string { return f.OOXML() }
