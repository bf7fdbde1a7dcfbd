package xl

import (
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/adnsv/srw/xml"
	"github.com/muktihari/xmltokenizer"
	"github.com/pkg/errors"
)

// Custom filter operators (ST_FilterOperator).
const (
	OpEqual              = "equal"
	OpLessThan           = "lessThan"
	OpLessThanOrEqual    = "lessThanOrEqual"
	OpNotEqual           = "notEqual"
	OpGreaterThanOrEqual = "greaterThanOrEqual"
	OpGreaterThan        = "greaterThan"
)

// AutoFilter is a worksheet or table autoFilter element.
type AutoFilter struct {
	Ref     string
	Columns []*FilterColumn
}

// FilterColumn holds the criteria of one column; ColID is relative to the
// first column of Ref.
type FilterColumn struct {
	ColID        int
	HiddenButton bool

	Filters       *Filters
	CustomFilters *CustomFilters
	Top10         *Top10
}

// Filters keeps rows whose value is one of Values, or blank when Blank is set.
type Filters struct {
	Blank  bool
	Values []string
}

// CustomFilters holds one or two comparisons joined by and/or.
type CustomFilters struct {
	And     bool
	Filters []CustomFilter
}

type CustomFilter struct {
	Operator string // equal when empty
	Val      string
}

type Top10 struct {
	Top     bool
	Percent bool
	Val     float64
}

// Column returns the filter of a column, creating it when absent.
func (af *AutoFilter) Column(colID int) *FilterColumn {
	for _, c := range af.Columns {
		if c.ColID == colID {
			return c
		}
	}
	c := &FilterColumn{ColID: colID}
	af.Columns = append(af.Columns, c)
	return c
}

// ColumnByName returns the criteria of a sheet column given by its letters,
// translating it to a ColID relative to the first column of Ref.
func (af *AutoFilter) ColumnByName(letters string) (*FilterColumn, error) {
	first, _, _ := strings.Cut(af.Ref, ":")
	c0, _, err := ParseCellCoord(first)
	if err != nil {
		return nil, errors.Wrap(err, "autoFilter ref")
	}
	c := ColumnLettersAsNumber(letters)
	if c < c0 {
		return nil, errors.Errorf("column %q is outside of autoFilter %s", letters, af.Ref)
	}
	return af.Column(c - c0), nil
}

// Matches reports whether a cell value passes the column criteria. Top10
// needs the whole column and is not evaluated here.
func (fc *FilterColumn) Matches(value string) bool {
	if fc.Filters != nil && !fc.Filters.Matches(value) {
		return false
	}
	if fc.CustomFilters != nil && !fc.CustomFilters.Matches(value) {
		return false
	}
	return true
}

func (f *Filters) Matches(value string) bool {
	if strings.TrimSpace(value) == "" {
		return f.Blank
	}
	for _, v := range f.Values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func (cf *CustomFilters) Matches(value string) bool {
	if len(cf.Filters) == 0 {
		return true
	}
	for _, f := range cf.Filters {
		ok := f.Matches(value)
		if cf.And && !ok {
			return false
		}
		if !cf.And && ok {
			return true
		}
	}
	return cf.And
}

// Matches compares numerically when both sides are numbers, otherwise as
// case-insensitive text. Equality tests accept * and ? wildcards.
func (f CustomFilter) Matches(value string) bool {
	op := f.Operator
	if op == "" {
		op = OpEqual
	}

	var cmp int
	a, aerr := strconv.ParseFloat(strings.TrimSpace(value), 64)
	b, berr := strconv.ParseFloat(strings.TrimSpace(f.Val), 64)
	switch {
	case aerr == nil && berr == nil:
		switch {
		case a < b:
			cmp = -1
		case a > b:
			cmp = 1
		}
	case op == OpEqual || op == OpNotEqual:
		match, err := path.Match(strings.ToLower(f.Val), strings.ToLower(value))
		if err != nil {
			match = strings.EqualFold(f.Val, value)
		}
		if op == OpEqual {
			return match
		}
		return !match
	default:
		cmp = strings.Compare(strings.ToLower(value), strings.ToLower(f.Val))
	}

	switch op {
	case OpEqual:
		return cmp == 0
	case OpNotEqual:
		return cmp != 0
	case OpLessThan:
		return cmp < 0
	case OpLessThanOrEqual:
		return cmp <= 0
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterThanOrEqual:
		return cmp >= 0
	}
	return false
}

func ParseAutoFilter(r io.Reader) (*AutoFilter, error) {
	var af *AutoFilter
	err := parseRoot(r, "autoFilter", func(d *decoder, se *xmltokenizer.Token) (err error) {
		af, err = parseAutoFilter(d, se)
		return err
	})
	return af, err
}

func parseAutoFilter(d *decoder, se *xmltokenizer.Token) (*AutoFilter, error) {
	af := &AutoFilter{Ref: attrString(se, "ref")}
	err := d.walk(se, func(el *xmltokenizer.Token) error {
		if localName(el) != "filterColumn" {
			return nil
		}
		fc, err := parseFilterColumn(d, el)
		if err != nil {
			return err
		}
		af.Columns = append(af.Columns, fc)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "autoFilter")
	}
	return af, nil
}

func parseFilterColumn(d *decoder, se *xmltokenizer.Token) (*FilterColumn, error) {
	fc := &FilterColumn{}
	var err error
	if fc.ColID, _, err = attrInt(se, "colId"); err != nil {
		return nil, err
	}
	if fc.HiddenButton, err = attrBool(se, "hiddenButton", false); err != nil {
		return nil, err
	}

	err = d.walk(se, func(el *xmltokenizer.Token) (err error) {
		switch localName(el) {
		case "filters":
			f := &Filters{}
			if f.Blank, err = attrBool(el, "blank", false); err != nil {
				return err
			}
			fc.Filters = f
			return d.walk(el, func(el *xmltokenizer.Token) error {
				if localName(el) == "filter" {
					f.Values = append(f.Values, attrString(el, "val"))
				}
				return nil
			})
		case "customFilters":
			cf := &CustomFilters{}
			if cf.And, err = attrBool(el, "and", false); err != nil {
				return err
			}
			fc.CustomFilters = cf
			return d.walk(el, func(el *xmltokenizer.Token) error {
				if localName(el) == "customFilter" {
					cf.Filters = append(cf.Filters, CustomFilter{
						Operator: attrString(el, "operator"),
						Val:      attrString(el, "val"),
					})
				}
				return nil
			})
		case "top10":
			t := &Top10{}
			if t.Top, err = attrBool(el, "top", true); err != nil {
				return err
			}
			if t.Percent, err = attrBool(el, "percent", false); err != nil {
				return err
			}
			if t.Val, _, err = attrFloat(el, "val"); err != nil {
				return err
			}
			fc.Top10 = t
		}
		return nil
	})
	return fc, err
}

func (af *AutoFilter) WriteXML(x *xml.Writer) {
	x.OTag("+autoFilter").Attr("ref", af.Ref)
	for _, fc := range af.Columns {
		fc.WriteXML(x)
	}
	x.CTag()
}

func (af *AutoFilter) OOXML() string { return fragment(af.WriteXML) }

func (fc *FilterColumn) WriteXML(x *xml.Writer) {
	x.OTag("+filterColumn").Attr("colId", fc.ColID)
	if fc.HiddenButton {
		x.Attr("hiddenButton", 1)
	}
	if f := fc.Filters; f != nil {
		x.OTag("+filters")
		if f.Blank {
			x.Attr("blank", 1)
		}
		for _, v := range f.Values {
			x.OTag("+filter").Attr("val", v).CTag()
		}
		x.CTag()
	}
	if cf := fc.CustomFilters; cf != nil {
		x.OTag("+customFilters")
		if cf.And {
			x.Attr("and", 1)
		}
		for _, f := range cf.Filters {
			x.OTag("+customFilter")
			if f.Operator != "" && f.Operator != OpEqual {
				x.Attr("operator", f.Operator)
			}
			x.Attr("val", f.Val)
			x.CTag()
		}
		x.CTag()
	}
	if t := fc.Top10; t != nil {
		x.OTag("+top10")
		if !t.Top {
			x.Attr("top", 0)
		}
		if t.Percent {
			x.Attr("percent", 1)
		}
		x.Attr("val", formatFloat(t.Val))
		x.CTag()
	}
	x.CTag()
}
