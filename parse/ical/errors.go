package ical

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSkipProperty is returned by a scribe to omit one property. It never
	// reaches the caller of a reader or writer.
	ErrSkipProperty = errors.New("ical: skip property")

	ErrInvalidPropertyName    = errors.New("ical: invalid property name")
	ErrInvalidParameterValue  = errors.New("ical: invalid parameter value")
	ErrInvalidComponentName   = errors.New("ical: invalid component name")
	ErrPropertyOutsideOfBlock = errors.New("ical: property outside of a component")

	// ErrInvalidIndent is returned for a fold indent other than one space or
	// one tab, the only continuations an unfolding reader removes.
	ErrInvalidIndent = errors.New("ical: fold indent must be a single space or tab")
)

// CheckFoldIndent returns ErrInvalidIndent unless indent is " " or "\t".
func CheckFoldIndent(indent string) error {
	if indent == " " || indent == "\t" {
		return nil
	}
	return fmt.Errorf("%w: got %q", ErrInvalidIndent, indent)
}

// MalformedLineError reports a line with no property name or no value.
type MalformedLineError struct {
	Line    string
	LineNum int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("ical:%d: malformed line %q", e.LineNum, e.Line)
}

// IOError wraps a failure of the underlying stream.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("ical: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// CannotParse codes. Each distinguishes one failure cause.
const (
	CodeDate         = 17
	CodeDuration     = 18
	CodeUTCOffset    = 19
	CodeGeoMissing   = 20
	CodeGeoLatitude  = 21
	CodeGeoLongitude = 22
	CodeInteger      = 23
	CodeRecurrence   = 24
	CodeTrigger      = 25
	CodeDaylight     = 26
	CodeVCalAlarm    = 27
	CodeVersion      = 28
)

var cannotParseMessages = map[int]string{
	CodeDate:         "could not parse date value %q",
	CodeDuration:     "could not parse duration value %q",
	CodeUTCOffset:    "could not parse UTC offset %q",
	CodeGeoMissing:   "value must contain a latitude and a longitude",
	CodeGeoLatitude:  "could not parse latitude %q",
	CodeGeoLongitude: "could not parse longitude %q",
	CodeInteger:      "could not parse integer value %q",
	CodeRecurrence:   "could not parse recurrence rule %q",
	CodeTrigger:      "value is neither a duration nor a date-time: %q",
	CodeDaylight:     "could not parse daylight value %q",
	CodeVCalAlarm:    "could not parse alarm value %q",
	CodeVersion:      "unknown version %q",
}

// CannotParseError is returned by a scribe when a value is syntactically
// invalid for its type.
type CannotParseError struct {
	Code int
	Args []any
}

func CannotParse(code int, args ...any) *CannotParseError {
	return &CannotParseError{Code: code, Args: args}
}

func (e *CannotParseError) Error() string {
	msg, ok := cannotParseMessages[e.Code]
	if !ok {
		return fmt.Sprintf("ical: cannot parse (code %d) %v", e.Code, e.Args)
	}
	if strings.Contains(msg, "%") {
		args := e.Args
		if len(args) == 0 {
			args = []any{""}
		}
		msg = fmt.Sprintf(msg, args...)
	}
	return fmt.Sprintf("ical: %s", msg)
}

// MissingElementsError names the xCal child elements that were required but absent.
type MissingElementsError struct {
	Names []string
}

func MissingElements(names ...string) *MissingElementsError {
	return &MissingElementsError{Names: names}
}

func (e *MissingElementsError) Error() string {
	return fmt.Sprintf("ical: missing xml elements: %s", strings.Join(e.Names, ", "))
}

// UnscribedTypesError lists component/property types with no scribe. Writers
// return it before emitting any output.
type UnscribedTypesError struct {
	Types []string
}

func (e *UnscribedTypesError) Error() string {
	return fmt.Sprintf("ical: no scribes registered for: %s", strings.Join(e.Types, ", "))
}
