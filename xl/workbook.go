package xl

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type Workbook struct {
	AppName string
	Sheets  []*Sheet
	Theme   *Theme // written as the theme part when set

	sheetMap map[string]*Sheet
}

func NewWorkbook() *Workbook {
	return &Workbook{
		sheetMap: map[string]*Sheet{},
	}
}

// AddSheet appends a sheet. Sheet names are unique regardless of case.
func (wb *Workbook) AddSheet(name string) (*Sheet, error) {
	if err := validateSheetName(name); err != nil {
		return nil, errors.Wrapf(err, "sheet %q", name)
	}
	key := strings.ToLower(name)
	if _, exists := wb.sheetMap[key]; exists {
		return nil, errors.Errorf("duplicate sheet name '%s'", name)
	}

	sheet := &Sheet{
		workbook:      wb,
		Name:          name,
		Columns:       map[int]*Column{},
		nextRowNumber: 1,
	}
	wb.Sheets = append(wb.Sheets, sheet)
	wb.sheetMap[key] = sheet
	return sheet, nil
}

// Palette returns the theme colors resolve against.
func (wb *Workbook) Palette() Palette {
	if wb.Theme != nil {
		return wb.Theme
	}
	return DefaultTheme()
}

// ResolveColor resolves c against the workbook theme.
func (wb *Workbook) ResolveColor(c Color, ctx ColorContext) (Resolved, error) {
	return c.Resolve(ctx, wb.Palette())
}

func (wb *Workbook) Sheet(name string) *Sheet {
	return wb.sheetMap[strings.ToLower(name)]
}

func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return errors.New("empty sheet name is not allowed")
	} else if n > 31 {
		return errors.Errorf("the sheet name is %d characters long, at most 31 are allowed", n)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return errors.New("the first or last character of the sheet name can not be a single quote")
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return errors.New("the sheet can not contain any of the characters :\\/?*[]")
	}
	return nil
}
