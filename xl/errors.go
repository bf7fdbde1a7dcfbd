package xl

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Log is the package logger. Lenient helpers that fall back to a sentinel
// value report the swallowed error here.
var Log = logrus.WithField("pkg", "xl")

var (
	ErrMalformedRGB       = errors.New("malformed rgb value")
	ErrIndexOutOfRange    = errors.New("color index out of range")
	ErrUnknownBorderStyle = errors.New("unknown border style")
	ErrUnexpectedElement  = errors.New("unexpected element")
	ErrMalformedCoord     = errors.New("malformed cell reference")
	ErrUnclosedElement    = errors.New("element not closed")
)

// AttrError reports an attribute value that could not be interpreted.
type AttrError struct {
	Element string
	Attr    string
	Value   string
	Err     error
}

func (e *AttrError) Error() string {
	return fmt.Sprintf("<%s %s=%q>: %v", e.Element, e.Attr, e.Value, e.Err)
}

func (e *AttrError) Unwrap() error { return e.Err }

func attrError(elem, attr, value string, err error) error {
	return &AttrError{Element: elem, Attr: attr, Value: value, Err: errors.WithStack(err)}
}
