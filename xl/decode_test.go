package xl

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTruncated(t *testing.T) {
	parse := map[string]func(r io.Reader) error{
		"border": func(r io.Reader) error { _, err := ParseBorder(r); return err },
		"font":   func(r io.Reader) error { _, err := ParseFont(r); return err },
		"fill":   func(r io.Reader) error { _, err := ParseFill(r); return err },
		"color":  func(r io.Reader) error { _, err := ParseColor(r); return err },
		"af":     func(r io.Reader) error { _, err := ParseAutoFilter(r); return err },
		"cf":     func(r io.Reader) error { _, err := ParseConditionalFormatting(r); return err },
		"anchor": func(r io.Reader) error { _, err := ParseTwoCellAnchor(r); return err },
		"shape":  func(r io.Reader) error { _, err := ParseShape(r); return err },
		"para":   func(r io.Reader) error { _, err := ParseTextParagraph(r); return err },
		"run":    func(r io.Reader) error { _, err := ParseTextRun(r); return err },
		"pic":    func(r io.Reader) error { _, err := ParsePicture(r); return err },
		"theme":  func(r io.Reader) error { _, err := ParseTheme(r); return err },
	}

	tests := []struct {
		kind string
		in   string
	}{
		{"border", `<border><left style="thin">`},
		{"border", `<border><left style="thin"><color rgb="FF000000"/></left>`},
		{"border", `<border>`},
		{"font", `<font><b/><sz val="11"/>`},
		{"fill", `<fill><patternFill patternType="solid">`},
		{"color", `<color rgb="FF000000">`},
		{"af", `<autoFilter ref="A1:B2"><filterColumn colId="0">`},
		{"af", `<autoFilter ref="A1:B2"><filterColumn colId="0"><filters><filter val="x"/></filters></filterColumn>`},
		{"cf", `<conditionalFormatting sqref="A1"><cfRule type="expression" priority="1"><formula>A1</formula>`},
		{"anchor", `<xdr:twoCellAnchor><xdr:from><xdr:col>1</xdr:col>`},
		{"anchor", `<xdr:twoCellAnchor><xdr:unknown><xdr:nested/>`},
		{"shape", `<xdr:sp><xdr:txBody><a:p>`},
		{"para", `<a:p><a:r><a:t>text</a:t></a:r>`},
		{"run", `<a:r><a:rPr b="1">`},
		{"pic", `<xdr:pic><xdr:nvPicPr>`},
		{"theme", `<a:theme name="t"><a:themeElements>`},
	}
	for _, tt := range tests {
		err := parse[tt.kind](strings.NewReader(tt.in))
		assert.ErrorIs(t, err, ErrUnclosedElement, tt.in)
	}

	// complete fragments still parse
	b, err := ParseBorder(strings.NewReader(`<border><left style="thin"/></border>`))
	require.NoError(t, err)
	assert.Equal(t, BorderThin, b.Left.Style)
}

func TestUnescape(t *testing.T) {
	tests := map[string]string{
		"plain":                   "plain",
		"a &lt; b &amp;&amp; c":   "a < b && c",
		"&quot;q&quot; &apos;":    `"q" '`,
		"line1&#10;line2":         "line1\nline2",
		"tab&#x9;end":             "tab\tend",
		"&#xA;&#XA;":              "\n&#XA;",
		"&#65;&#x42;&#x43;":       "ABC",
		"&#8364; &#x1F600;":       "€ \U0001F600",
		"&nbsp; &unknown; & done": "&nbsp; &unknown; & done",
		"&#; &#x; &#xZZ; &#-1;":   "&#; &#x; &#xZZ; &#-1;",
		"&#1114112;":              "&#1114112;",
		"tail &amp":               "tail &amp",
	}
	for in, want := range tests {
		assert.Equal(t, want, unescape(in), in)
	}
}

func TestParseCharacterReferences(t *testing.T) {
	r, err := ParseTextRun(strings.NewReader(`<a:r><a:t>first&#10;second&#xD;&#xA;third</a:t></a:r>`))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\r\nthird", r.Text)

	af, err := ParseAutoFilter(strings.NewReader(
		`<autoFilter ref="A1:A9"><filterColumn colId="0"><customFilters><customFilter val="a&#10;b"/></customFilters></filterColumn></autoFilter>`))
	require.NoError(t, err)
	require.Len(t, af.Columns, 1)
	assert.Equal(t, "a\nb", af.Columns[0].CustomFilters.Filters[0].Val)
}
