package xl

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// decoder walks an element tree on top of the streaming tokenizer.
// Handlers passed to walk receive a copy of each child start element; a
// child left unconsumed by its handler has its subtree skipped.
type decoder struct {
	tok    *xmltokenizer.Tokenizer
	closed *xmltokenizer.Token
}

func newDecoder(r io.Reader) *decoder {
	return &decoder{tok: xmltokenizer.New(r)}
}

// root returns a copy of the first start element in the stream. The caller
// releases it with xmltokenizer.PutToken.
func (d *decoder) root() (*xmltokenizer.Token, error) {
	for {
		t, err := d.tok.Token()
		if err == io.EOF {
			return nil, errors.New("no root element")
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if isStart(&t) {
			return xmltokenizer.GetToken().Copy(t), nil
		}
	}
}

func (d *decoder) walk(se *xmltokenizer.Token, fn func(el *xmltokenizer.Token) error) error {
	if se.SelfClosing {
		d.closed = se
		return nil
	}
	for {
		t, err := d.tok.Token()
		if truncated(err) {
			return errors.Wrapf(ErrUnclosedElement, "<%s>", localName(se))
		}
		if err != nil {
			return errors.WithStack(err)
		}
		if t.IsEndElementOf(se) {
			break
		}
		if !isStart(&t) {
			continue
		}

		el := xmltokenizer.GetToken().Copy(t)
		d.closed = nil
		if fn != nil {
			err = fn(el)
		}
		if err == nil && d.closed != el && !el.SelfClosing {
			err = d.skip(el)
		}
		xmltokenizer.PutToken(el)
		if err != nil {
			return err
		}
	}
	d.closed = se
	return nil
}

func (d *decoder) skip(se *xmltokenizer.Token) error {
	depth := 0
	for {
		t, err := d.tok.Token()
		if truncated(err) {
			return errors.Wrapf(ErrUnclosedElement, "<%s>", localName(se))
		}
		if err != nil {
			return errors.WithStack(err)
		}
		switch {
		case t.IsEndElement():
			if depth == 0 {
				d.closed = se
				return nil
			}
			depth--
		case isStart(&t) && !t.SelfClosing:
			depth++
		}
	}
}

// parseRoot checks the root element name and hands it to fn.
func parseRoot(r io.Reader, want string, fn func(d *decoder, se *xmltokenizer.Token) error) error {
	d := newDecoder(r)
	se, err := d.root()
	if err != nil {
		return err
	}
	defer xmltokenizer.PutToken(se)
	if localName(se) != want {
		return errors.Wrapf(ErrUnexpectedElement, "<%s>, want <%s>", localName(se), want)
	}
	return fn(d, se)
}

// truncated reports whether the stream ended inside an open element.
func truncated(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func isStart(t *xmltokenizer.Token) bool {
	if t.IsEndElement() || len(t.Name.Local) == 0 {
		return false
	}
	c := t.Name.Local[0]
	return c != '?' && c != '!'
}

func localName(t *xmltokenizer.Token) string {
	return string(t.Name.Local)
}

// text returns the unescaped character data directly inside t.
func text(t *xmltokenizer.Token) string {
	return unescape(string(t.CharData))
}

func attrString(t *xmltokenizer.Token, name string) string {
	v, _ := attrLookup(t, name)
	return v
}

func attrLookup(t *xmltokenizer.Token, name string) (string, bool) {
	for i := range t.Attrs {
		a := &t.Attrs[i]
		if string(a.Name.Local) == name {
			return unescape(string(a.Value)), true
		}
	}
	return "", false
}

func attrInt(t *xmltokenizer.Token, name string) (int, bool, error) {
	s, ok := attrLookup(t, name)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, true, attrError(localName(t), name, s, err)
	}
	return v, true, nil
}

func attrInt64(t *xmltokenizer.Token, name string) (int64, bool, error) {
	s, ok := attrLookup(t, name)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, true, attrError(localName(t), name, s, err)
	}
	return v, true, nil
}

func attrFloat(t *xmltokenizer.Token, name string) (float64, bool, error) {
	s, ok := attrLookup(t, name)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, true, attrError(localName(t), name, s, err)
	}
	return v, true, nil
}

// attrBool reads an xsd:boolean. A missing attribute yields def.
func attrBool(t *xmltokenizer.Token, name string, def bool) (bool, error) {
	s, ok := attrLookup(t, name)
	if !ok {
		return def, nil
	}
	switch strings.TrimSpace(s) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return def, attrError(localName(t), name, s, errors.New("not a boolean"))
}

// charData reads the text of a leaf element such as <formula> or <a:t>.
func charData(d *decoder, se *xmltokenizer.Token) (string, error) {
	s := text(se)
	return s, d.walk(se, nil)
}

var xmlEntities = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"quot": '"',
	"apos": '\'',
	"amp":  '&',
}

// unescape decodes the predefined entities and numeric character
// references (&#10; &#xA;). Anything unrecognized is kept as is.
func unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for {
		i := strings.IndexByte(s, '&')
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:i])
		s = s[i:]
		j := strings.IndexByte(s, ';')
		if j < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		if r, ok := decodeEntity(s[1:j]); ok {
			sb.WriteRune(r)
		} else {
			sb.WriteString(s[:j+1])
		}
		s = s[j+1:]
	}
}

func decodeEntity(name string) (rune, bool) {
	if r, ok := xmlEntities[name]; ok {
		return r, true
	}
	num, ok := strings.CutPrefix(name, "#")
	if !ok || num == "" {
		return 0, false
	}
	base := 10
	if hex, ok := strings.CutPrefix(num, "x"); ok {
		num, base = hex, 16
	}
	v, err := strconv.ParseUint(num, base, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

func boolAttr(v bool) int {
	if v {
		return 1
	}
	return 0
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fragment serializes a single element the way the package writes parts.
func fragment(fn func(x *xml.Writer)) string {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	fn(x)
	return bb.String()
}
