package xl

import (
	"bytes"
	"io"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// Theme color slots in SpreadsheetML order. Note that the light and dark
// entries are swapped relative to the order of a:clrScheme children.
const (
	SlotLight1 = iota
	SlotDark1
	SlotLight2
	SlotDark2
	SlotAccent1
	SlotAccent2
	SlotAccent3
	SlotAccent4
	SlotAccent5
	SlotAccent6
	SlotHyperlink
	SlotFollowedHyperlink

	ThemeSlotCount
)

// FallbackSlot is used when a color references a slot the theme lacks.
const FallbackSlot = SlotDark1

var slotNames = [ThemeSlotCount]string{
	"lt1", "dk1", "lt2", "dk2",
	"accent1", "accent2", "accent3", "accent4", "accent5", "accent6",
	"hlink", "folHlink",
}

// clrScheme children are written in this slot order.
var schemeOrder = [ThemeSlotCount]int{
	SlotDark1, SlotLight1, SlotDark2, SlotLight2,
	SlotAccent1, SlotAccent2, SlotAccent3, SlotAccent4, SlotAccent5, SlotAccent6,
	SlotHyperlink, SlotFollowedHyperlink,
}

// Palette supplies RGB values for theme slots.
type Palette interface {
	SlotRGB(slot int) (string, bool)
}

// Theme is a named set of twelve base colors.
type Theme struct {
	Name   string
	Colors [ThemeSlotCount]string // 6 digit RGB hex per slot
}

// DefaultTheme returns the Office 2007 color scheme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "Office",
		Colors: [ThemeSlotCount]string{
			"FFFFFF", "000000", "EEECE1", "1F497D",
			"4F81BD", "C0504D", "9BBB59", "8064A2", "4BACC6", "F79646",
			"0000FF", "800080",
		},
	}
}

func (t *Theme) SlotRGB(slot int) (string, bool) {
	if slot < 0 || slot >= ThemeSlotCount || t.Colors[slot] == "" {
		return "", false
	}
	return t.Colors[slot], true
}

// SetSlot assigns a slot color. The value is normalized like any RGB color.
func (t *Theme) SetSlot(slot int, rgb string) error {
	if slot < 0 || slot >= ThemeSlotCount {
		return errors.Wrapf(ErrIndexOutOfRange, "theme slot %d", slot)
	}
	n, err := NormalizeRGB(rgb)
	if err != nil {
		return err
	}
	t.Colors[slot] = n
	return nil
}

// SlotByName maps a clrScheme or schemeClr name to a slot.
// The text/background aliases used by DrawingML are accepted.
func SlotByName(name string) (int, bool) {
	switch name {
	case "tx1":
		return SlotDark1, true
	case "bg1":
		return SlotLight1, true
	case "tx2":
		return SlotDark2, true
	case "bg2":
		return SlotLight2, true
	}
	for i, n := range slotNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// SlotName returns the clrScheme element name of a slot.
func SlotName(slot int) string {
	if slot < 0 || slot >= ThemeSlotCount {
		return ""
	}
	return slotNames[slot]
}

// themeRGB resolves a slot against p, falling back to the default theme and
// then to the dark 1 slot.
func themeRGB(p Palette, slot int) string {
	if p != nil {
		if rgb, ok := p.SlotRGB(slot); ok {
			return rgb
		}
	}
	def := DefaultTheme()
	if rgb, ok := def.SlotRGB(slot); ok {
		return rgb
	}
	if p != nil {
		if rgb, ok := p.SlotRGB(FallbackSlot); ok {
			return rgb
		}
	}
	return def.Colors[FallbackSlot]
}

// ParseTheme reads the color scheme of a theme part (xl/theme/theme1.xml).
// Font and format schemes are skipped.
func ParseTheme(r io.Reader) (*Theme, error) {
	d := newDecoder(r)
	root, err := d.root()
	if err != nil {
		return nil, err
	}
	defer xmltokenizer.PutToken(root)
	if localName(root) != "theme" {
		return nil, errors.Wrapf(ErrUnexpectedElement, "<%s>, want <a:theme>", localName(root))
	}

	t := &Theme{Name: attrString(root, "name")}
	err = d.walk(root, func(el *xmltokenizer.Token) error {
		if localName(el) != "themeElements" {
			return nil
		}
		return d.walk(el, func(el *xmltokenizer.Token) error {
			if localName(el) != "clrScheme" {
				return nil
			}
			return d.walk(el, func(el *xmltokenizer.Token) error {
				slot, ok := SlotByName(localName(el))
				if !ok {
					return nil
				}
				return d.walk(el, func(el *xmltokenizer.Token) error {
					var v, attr string
					switch localName(el) {
					case "srgbClr":
						attr = "val"
						v = attrString(el, attr)
					case "sysClr":
						attr = "lastClr"
						v = attrString(el, attr)
						if v == "" {
							attr = "val"
							v = systemColorRGB(attrString(el, attr))
						}
					default:
						return nil
					}
					if v == "" {
						return nil
					}
					if err := t.SetSlot(slot, v); err != nil {
						return attrError(localName(el), attr, v, err)
					}
					return nil
				})
			})
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse theme")
	}
	return t, nil
}

func systemColorRGB(name string) string {
	switch name {
	case "windowText", "menuText", "btnText", "captionText":
		return "000000"
	case "window", "menu", "btnHighlight":
		return "FFFFFF"
	}
	return ""
}

// WriteXML emits a complete a:theme part. Font and format schemes are the
// minimal ones spreadsheet applications require.
func (t *Theme) WriteXML(x *xml.Writer) {
	name := t.Name
	if name == "" {
		name = "Office"
	}
	x.OTag("a:theme")
	x.Attr("xmlns:a", "http://schemas.openxmlformats.org/drawingml/2006/main")
	x.Attr("name", name)

	x.OTag("+a:themeElements")

	x.OTag("+a:clrScheme").Attr("name", name)
	for _, slot := range schemeOrder {
		rgb := themeRGB(t, slot)
		switch slot {
		case SlotDark1:
			x.OTag("+a:dk1")
		case SlotLight1:
			x.OTag("+a:lt1")
		case SlotDark2:
			x.OTag("+a:dk2")
		case SlotLight2:
			x.OTag("+a:lt2")
		case SlotAccent1:
			x.OTag("+a:accent1")
		case SlotAccent2:
			x.OTag("+a:accent2")
		case SlotAccent3:
			x.OTag("+a:accent3")
		case SlotAccent4:
			x.OTag("+a:accent4")
		case SlotAccent5:
			x.OTag("+a:accent5")
		case SlotAccent6:
			x.OTag("+a:accent6")
		case SlotHyperlink:
			x.OTag("+a:hlink")
		case SlotFollowedHyperlink:
			x.OTag("+a:folHlink")
		}
		x.OTag("a:srgbClr").Attr("val", rgb).CTag()
		x.CTag()
	}
	x.CTag() // clrScheme

	x.OTag("+a:fontScheme").Attr("name", name)
	x.OTag("+a:majorFont")
	x.OTag("+a:latin").Attr("typeface", "Cambria").CTag()
	x.OTag("+a:ea").Attr("typeface", "").CTag()
	x.OTag("+a:cs").Attr("typeface", "").CTag()
	x.CTag()
	x.OTag("+a:minorFont")
	x.OTag("+a:latin").Attr("typeface", "Calibri").CTag()
	x.OTag("+a:ea").Attr("typeface", "").CTag()
	x.OTag("+a:cs").Attr("typeface", "").CTag()
	x.CTag()
	x.CTag() // fontScheme

	x.OTag("+a:fmtScheme").Attr("name", name)
	x.OTag("+a:fillStyleLst")
	for range 3 {
		x.OTag("+a:solidFill")
		x.OTag("a:schemeClr").Attr("val", "phClr").CTag()
		x.CTag()
	}
	x.CTag()
	x.OTag("+a:lnStyleLst")
	for _, w := range []int{9525, 25400, 38100} {
		x.OTag("+a:ln").Attr("w", w)
		x.OTag("+a:solidFill")
		x.OTag("a:schemeClr").Attr("val", "phClr").CTag()
		x.CTag()
		x.CTag()
	}
	x.CTag()
	x.OTag("+a:effectStyleLst")
	for range 3 {
		x.OTag("+a:effectStyle")
		x.OTag("a:effectLst").CTag()
		x.CTag()
	}
	x.CTag()
	x.OTag("+a:bgFillStyleLst")
	for range 3 {
		x.OTag("+a:solidFill")
		x.OTag("a:schemeClr").Attr("val", "phClr").CTag()
		x.CTag()
	}
	x.CTag()
	x.CTag() // fmtScheme

	x.CTag() // themeElements
	x.CTag() // theme
}

// OOXML returns the theme part as a string.
func (t *Theme) OOXML() string {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()
	t.WriteXML(x)
	return bb.String()
}
